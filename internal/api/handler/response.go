package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the JSON shape of every successful response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// errorResponse documents the failure envelope rendered by the global error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: msg, Data: data})
}

// respondList reports the page length in results alongside the items.
func respondList[T any](c echo.Context, items []T) error {
	n := len(items)
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Results: &n, Data: items})
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
