package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobbee/jobboard-api/internal/api/middleware"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// CookieConfig controls the token cookie issued alongside the JSON token.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

type authResponse struct {
	Success   bool          `json:"success" example:"true"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *userResponse `json:"user,omitempty"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Description  Role may be user (default) or employer. Sets the token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return h.sendToken(c, http.StatusCreated, result)
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.sendToken(c, http.StatusOK, result)
}

// Logout clears the token cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return respondMessage(c, http.StatusOK, "Logged out successfully.", nil)
}

// UpdatePassword changes the caller's password and issues a fresh token.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /password/update [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.UpdatePassword(c.Request().Context(), actor.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}

	return h.sendToken(c, http.StatusOK, result)
}

// sendToken writes the token both as an HttpOnly cookie and in the body.
func (h *AuthHandler) sendToken(c echo.Context, status int, result *ports.AuthResult) error {
	expires := result.ExpiresAt
	if h.cookie.TTL > 0 {
		expires = time.Now().Add(h.cookie.TTL)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	resp := authResponse{Success: true, Token: result.Token, ExpiresAt: result.ExpiresAt}
	if result.User != nil {
		u := toUserResponse(result.User)
		resp.User = &u
	}
	return c.JSON(status, resp)
}
