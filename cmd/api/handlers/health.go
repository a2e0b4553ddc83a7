// Package handlers provides the HTTP handlers for the video API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const apiVersion = "1.0.0"

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

func HandleHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{
			Status:  "healthy",
			Message: "Shortbread API is running",
			Version: apiVersion,
		})
	}
}
