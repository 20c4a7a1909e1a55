package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// UserHandler serves the caller's own profile and the admin user listing.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateProfileRequest struct {
	Name  string `json:"name"  validate:"omitempty,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
}

type userResponse struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type userListResponse struct {
	Success bool           `json:"success" example:"true"`
	Results int            `json:"results"`
	Data    []userResponse `json:"data"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: timePtr(u.CreatedAt),
	}
}

// Me handles GET /me.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=userResponse}
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PUT /me/update.
//
// @Summary      Update current user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Name and/or email"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /me/update [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), actor.ID, ports.ProfileInput{Name: req.Name, Email: req.Email})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toUserResponse(user))
}

// DeleteMe handles DELETE /me/delete. Jobs and applications are kept.
//
// @Summary      Delete current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorResponse
// @Router       /me/delete [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), actor.ID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Your account has been deleted.", nil)
}

// List handles GET /users (admin only).
//
// @Summary      List users
// @Description  Supports the same filter, sort, fields and pagination parameters as GET /jobs.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        sort    query     string  false  "Comma separated sort fields"
// @Param        fields  query     string  false  "Comma separated fields to include"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  userListResponse
// @Failure      403     {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return respondList(c, lo.Map(users, func(u *domain.User, _ int) userResponse { return toUserResponse(u) }))
}

// Delete handles DELETE /user/:id (admin only).
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "User is deleted by Admin.", nil)
}
