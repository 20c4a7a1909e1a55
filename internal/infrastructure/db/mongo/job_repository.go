package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobbee/jobboard-api/internal/core/apifilter"
	"github.com/jobbee/jobboard-api/internal/core/domain"
)

const collectionJobs = "jobs"

// hideApplicants is the projection used by every public read.
var hideApplicants = bson.M{"applicantsApplied": 0}

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

type mongoLocation struct {
	Type             string    `bson:"type"`
	Coordinates      []float64 `bson:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress"`
	City             string    `bson:"city"`
	State            string    `bson:"state"`
	Zipcode          string    `bson:"zipcode"`
	Country          string    `bson:"country"`
}

type mongoApplicant struct {
	ID     string `bson:"id"`
	Resume string `bson:"resume"`
}

type mongoJob struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Slug         string             `bson:"slug"`
	Description  string             `bson:"description"`
	Email        string             `bson:"email,omitempty"`
	Address      string             `bson:"address"`
	Location     *mongoLocation     `bson:"location,omitempty"`
	Company      string             `bson:"company"`
	Industry     []string           `bson:"industry"`
	JobType      string             `bson:"jobType"`
	MinEducation string             `bson:"minEducation"`
	Positions    int                `bson:"positions"`
	Experience   string             `bson:"experience"`
	Salary       float64            `bson:"salary"`
	PostingDate  time.Time          `bson:"postingDate"`
	LastDate     time.Time          `bson:"lastDate"`
	Applicants   []mongoApplicant   `bson:"applicantsApplied,omitempty"`
	User         primitive.ObjectID `bson:"user"`
}

func toMongoJob(j *domain.Job) (*mongoJob, error) {
	owner, err := objectID(j.User)
	if err != nil {
		return nil, err
	}
	doc := &mongoJob{
		Title:        j.Title,
		Slug:         j.Slug,
		Description:  j.Description,
		Email:        j.Email,
		Address:      j.Address,
		Company:      j.Company,
		Industry:     j.Industry,
		JobType:      j.JobType,
		MinEducation: j.MinEducation,
		Positions:    j.Positions,
		Experience:   j.Experience,
		Salary:       j.Salary,
		PostingDate:  j.PostingDate,
		LastDate:     j.LastDate,
		User:         owner,
	}
	if j.Location != nil {
		doc.Location = &mongoLocation{
			Type:             j.Location.Type,
			Coordinates:      j.Location.Coordinates,
			FormattedAddress: j.Location.FormattedAddress,
			City:             j.Location.City,
			State:            j.Location.State,
			Zipcode:          j.Location.Zipcode,
			Country:          j.Location.Country,
		}
	}
	for _, a := range j.Applicants {
		doc.Applicants = append(doc.Applicants, mongoApplicant{ID: a.ID, Resume: a.Resume})
	}
	return doc, nil
}

func (m *mongoJob) toDomain() *domain.Job {
	j := &domain.Job{
		ID:           m.ID.Hex(),
		Title:        m.Title,
		Slug:         m.Slug,
		Description:  m.Description,
		Email:        m.Email,
		Address:      m.Address,
		Company:      m.Company,
		Industry:     m.Industry,
		JobType:      m.JobType,
		MinEducation: m.MinEducation,
		Positions:    m.Positions,
		Experience:   m.Experience,
		Salary:       m.Salary,
		PostingDate:  m.PostingDate.UTC(),
		LastDate:     m.LastDate.UTC(),
	}
	if !m.User.IsZero() {
		j.User = m.User.Hex()
	}
	if m.Location != nil {
		j.Location = &domain.Location{
			Type:             m.Location.Type,
			Coordinates:      m.Location.Coordinates,
			FormattedAddress: m.Location.FormattedAddress,
			City:             m.Location.City,
			State:            m.Location.State,
			Zipcode:          m.Location.Zipcode,
			Country:          m.Location.Country,
		}
	}
	for _, a := range m.Applicants {
		j.Applicants = append(j.Applicants, domain.Applicant{ID: a.ID, Resume: a.Resume})
	}
	return j
}

// Create inserts a new job and sets its ID.
func (r *JobRepository) Create(ctx context.Context, j *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoJob(j)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		j.ID = oid.Hex()
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *JobRepository) FindByIDAndSlug(ctx context.Context, id, slug string) (*domain.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid, "slug": slug}, options.FindOne().SetProjection(hideApplicants))
}

func (r *JobRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoJob
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return doc.toDomain(), nil
}

// Find runs a query produced by the filter builder.
func (r *JobRepository) Find(ctx context.Context, q apifilter.Query) ([]*domain.Job, error) {
	return r.find(ctx, q.Filter, q.FindOptions())
}

func (r *JobRepository) FindWithinRadius(ctx context.Context, lng, lat, radius float64) ([]*domain.Job, error) {
	filter := bson.M{
		"location.coordinates": bson.M{
			"$geoWithin": bson.M{"$centerSphere": bson.A{bson.A{lng, lat}, radius}},
		},
	}
	return r.find(ctx, filter, options.Find().SetProjection(hideApplicants))
}

func (r *JobRepository) FindAppliedBy(ctx context.Context, userID string) ([]*domain.Job, error) {
	return r.find(ctx, bson.M{"applicantsApplied.id": userID}, options.Find().SetProjection(hideApplicants))
}

func (r *JobRepository) FindPublishedBy(ctx context.Context, userID string) ([]*domain.Job, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetProjection(hideApplicants).
		SetSort(bson.D{{Key: "postingDate", Value: -1}})
	return r.find(ctx, bson.M{"user": oid}, opts)
}

func (r *JobRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoJob
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]*domain.Job, 0, len(docs))
	for i := range docs {
		jobs = append(jobs, docs[i].toDomain())
	}
	return jobs, nil
}

// Stats groups jobs matching topic by experience level.
func (r *JobRepository) Stats(ctx context.Context, topic string) ([]domain.JobStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$text": bson.M{"$search": `"` + topic + `"`}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         bson.M{"$toUpper": "$experience"},
			"totalJobs":   bson.M{"$sum": 1},
			"avgPosition": bson.M{"$avg": "$positions"},
			"avgSalary":   bson.M{"$avg": "$salary"},
			"minSalary":   bson.M{"$min": "$salary"},
			"maxSalary":   bson.M{"$max": "$salary"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate job stats: %w", err)
	}
	defer cur.Close(ctx)

	var stats []domain.JobStats
	if err := cur.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode job stats: %w", err)
	}
	return stats, nil
}

// Update sets the editable fields. Owner, dates and applicants are not written.
func (r *JobRepository) Update(ctx context.Context, j *domain.Job) error {
	oid, err := objectID(j.ID)
	if err != nil {
		return err
	}
	doc, err := toMongoJob(j)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":        doc.Title,
		"slug":         doc.Slug,
		"description":  doc.Description,
		"email":        doc.Email,
		"address":      doc.Address,
		"company":      doc.Company,
		"industry":     doc.Industry,
		"jobType":      doc.JobType,
		"minEducation": doc.MinEducation,
		"positions":    doc.Positions,
		"experience":   doc.Experience,
		"salary":       doc.Salary,
	}
	if doc.Location != nil {
		set["location"] = doc.Location
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// AddApplicant pushes a onto the applicant list in a single conditional
// update: the deadline must not have passed and a.ID must not already be
// present.
func (r *JobRepository) AddApplicant(ctx context.Context, jobID string, a domain.Applicant, now time.Time) (bool, error) {
	oid, err := objectID(jobID)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":                  oid,
		"lastDate":             bson.M{"$gte": now},
		"applicantsApplied.id": bson.M{"$ne": a.ID},
	}
	update := bson.M{"$push": bson.M{"applicantsApplied": mongoApplicant{ID: a.ID, Resume: a.Resume}}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("add applicant: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// RemoveApplicant undoes AddApplicant for userID. A job without that
// applicant is left untouched.
func (r *JobRepository) RemoveApplicant(ctx context.Context, jobID, userID string) error {
	oid, err := objectID(jobID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"applicantsApplied": bson.M{"id": userID}}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return fmt.Errorf("remove applicant: %w", err)
	}
	return nil
}

// EnsureIndexes creates the text, geo and lookup indexes on the jobs collection.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("jobs_text"),
		},
		{Keys: bson.D{{Key: "location.coordinates", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "applicantsApplied.id", Value: 1}}},
		{Keys: bson.D{{Key: "postingDate", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
