// Command api serves the job board HTTP API.
//
//	@title						Job Board API
//	@version					1.0
//	@description				Job postings with geocoded locations, resume applications and role based accounts.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/jobbee/jobboard-api/docs"
	"github.com/jobbee/jobboard-api/internal/api"
	"github.com/jobbee/jobboard-api/internal/api/handler"
	"github.com/jobbee/jobboard-api/internal/core/ports"
	"github.com/jobbee/jobboard-api/internal/core/service"
	mongodb "github.com/jobbee/jobboard-api/internal/infrastructure/db/mongo"
	redisdb "github.com/jobbee/jobboard-api/internal/infrastructure/db/redis"
	"github.com/jobbee/jobboard-api/internal/infrastructure/geocoder"
	"github.com/jobbee/jobboard-api/internal/infrastructure/queue"
	"github.com/jobbee/jobboard-api/internal/infrastructure/storage/local"
	"github.com/jobbee/jobboard-api/internal/infrastructure/storage/s3"
	"github.com/jobbee/jobboard-api/internal/pkg/config"
	"github.com/jobbee/jobboard-api/pkg/logger"
)

const (
	serviceName     = "jobboard-api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: serviceName})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	jobRepo := mongodb.NewJobRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	if err := mongodb.EnsureIndexes(ctx, jobRepo, userRepo); err != nil {
		return err
	}

	readiness := map[string]handler.Pinger{
		"mongodb": handler.MongoPinger(db),
		"redis":   nil,
	}

	// --- Redis (optional geocode cache) ---
	var geoStore geocoder.ResultStore
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	switch {
	case errors.Is(err, redisdb.ErrDisabled):
		log.Info().Msg("REDIS_ADDR empty, geocode results cached in memory only")
	case err != nil:
		log.Warn().Err(err).Msg("redis unavailable, geocode results cached in memory only")
	default:
		defer rdb.Close()
		geoStore = redisdb.NewGeoCache(rdb, cfg.Geocoder.Provider, cfg.Geocoder.CacheTTL)
		readiness["redis"] = handler.RedisPinger(rdb)
	}

	// --- Geocoder ---
	geo, err := geocoder.New(geocoder.Config{
		Provider:          cfg.Geocoder.Provider,
		APIKey:            cfg.Geocoder.APIKey,
		RequestsPerSecond: cfg.Geocoder.RequestsPerSecond,
		CacheTTL:          cfg.Geocoder.CacheTTL,
	}, geoStore, logger.Component(log, "geocoder"))
	if err != nil {
		return err
	}

	// --- Resume storage ---
	storage, err := newResumeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Application events ---
	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, logger.Component(log, "dispatcher"))
	dispatcher.Start(workerCtx)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := dispatcher.Shutdown(drainCtx); err != nil {
			log.Warn().Err(err).Msg("application events not fully drained")
		}
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Services ---
	jobService := service.NewJobService(jobRepo, geo, storage, log)
	applicationService := service.NewApplicationService(jobRepo, storage, dispatcher, cfg.Upload.MaxFileSize, log)
	userService := service.NewUserService(userRepo, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)

	e := api.NewRouter(api.RouterConfig{
		Logger:        log,
		JWTSecret:     cfg.JWTSecret,
		CORSOrigins:   cfg.CORSOrigins,
		Cookie:        handler.CookieConfig{TTL: cfg.CookieTTL, Secure: cfg.IsProduction()},
		MaxUploadSize: cfg.Upload.MaxFileSize,
		Jobs:          jobService,
		Applications:  applicationService,
		Users:         userService,
		Auth:          authService,
		Readiness:     readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("geocoder", cfg.Geocoder.Provider).
			Str("storage", cfg.Storage.Driver).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newResumeStorage(ctx context.Context, cfg *config.Config) (ports.ResumeStorage, error) {
	if cfg.Storage.Driver == "s3" {
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			Prefix:    cfg.Storage.S3Prefix,
		})
	}
	return local.New(cfg.Upload.Path)
}

// newPublisher returns the RabbitMQ publisher when a broker is configured and
// a log-only publisher otherwise.
func newPublisher(cfg *config.Config, log zerolog.Logger) (ports.EventPublisher, func(), error) {
	if cfg.Events.RabbitMQURL == "" {
		log.Info().Msg("RABBITMQ_URL not set, application events are logged only")
		return queue.NewLogPublisher(logger.Component(log, "events")), func() {}, nil
	}

	rp, err := queue.NewRabbitPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
	if err != nil {
		return nil, nil, err
	}
	return rp, func() {
		if err := rp.Close(); err != nil {
			log.Warn().Err(err).Msg("rabbitmq close failed")
		}
	}, nil
}
