package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"shortbread.app/shortbread/internal/ingest"
)

var validate = validator.New()

type saveVideoRequest struct {
	URL     string `json:"url" validate:"required"`
	OwnerID string `json:"owner_id" validate:"required,max=255"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeIngestError maps a pipeline error onto the API's error contract.
func writeIngestError(c echo.Context, err error) error {
	var ingestErr *ingest.Error
	if errors.As(err, &ingestErr) {
		return c.JSON(ingestErr.HTTPStatus(), errorResponse{
			Error:   string(ingestErr.Kind),
			Message: ingestErr.Message,
		})
	}
	slog.Error("unclassified error from ingestion service", "error", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{
		Error:   string(ingest.KindInternal),
		Message: "internal server error",
	})
}

// HandleSaveVideo ingests a remote video for an owner.
func HandleSaveVideo(svc *ingest.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req saveVideoRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: string(ingest.KindInvalidInput), Message: "invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: string(ingest.KindInvalidInput), Message: err.Error()})
		}

		result, err := svc.SaveVideo(c.Request().Context(), req.URL, req.OwnerID)
		if err != nil {
			slog.Warn("video ingestion failed", "url", req.URL, "owner_id", req.OwnerID, "error", err)
			return writeIngestError(c, err)
		}

		return c.JSON(http.StatusCreated, result)
	}
}

// HandleGetVideo returns a single video record by id.
func HandleGetVideo(svc *ingest.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: string(ingest.KindInvalidInput), Message: "invalid video id"})
		}

		rec, err := svc.GetVideo(c.Request().Context(), id)
		if err != nil {
			return writeIngestError(c, err)
		}
		return c.JSON(http.StatusOK, rec)
	}
}

// HandleListVideos returns an owner's videos, newest first.
func HandleListVideos(svc *ingest.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ownerID := c.QueryParam("owner_id")
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))

		recs, err := svc.ListVideos(c.Request().Context(), ownerID, limit, offset)
		if err != nil {
			return writeIngestError(c, err)
		}
		if recs == nil {
			recs = []*ingest.VideoRecord{}
		}
		return c.JSON(http.StatusOK, map[string]any{"videos": recs, "count": len(recs)})
	}
}

// HandleDeleteVideo removes a video's durable objects and its record.
func HandleDeleteVideo(svc *ingest.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: string(ingest.KindInvalidInput), Message: "invalid video id"})
		}

		if err := svc.DeleteVideo(c.Request().Context(), id); err != nil {
			return writeIngestError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"status": "deleted", "video_id": id.String()})
	}
}
