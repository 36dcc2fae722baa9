package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groundviewhq/groundview/internal/repository"
	"github.com/groundviewhq/groundview/internal/service"
	"github.com/groundviewhq/groundview/internal/vision"
)

// BoardHandler handles vision-board analysis.
type BoardHandler struct {
	coordinator *service.StrategyCoordinator
	collections *repository.CollectionRepository
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(coordinator *service.StrategyCoordinator, collections *repository.CollectionRepository) *BoardHandler {
	return &BoardHandler{coordinator: coordinator, collections: collections}
}

type boardBody struct {
	ImageIDs     []int64 `json:"image_ids"`
	CollectionID int64   `json:"collection_id"`
	Tenant       string  `json:"tenant"`
}

// Analyze handles POST /api/v1/board/analyze. The board is either an
// explicit id list or a saved collection.
func (h *BoardHandler) Analyze(c *gin.Context) {
	var body boardBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ids := body.ImageIDs
	if len(ids) == 0 && body.CollectionID != 0 {
		var err error
		ids, err = h.collections.ImageIDs(c.Request.Context(), body.CollectionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collection: " + err.Error()})
			return
		}
	}

	analysis, err := h.coordinator.AnalyzeBoard(c.Request.Context(), &service.BoardRequest{
		ImageIDs: ids,
		Tenant:   body.Tenant,
	})
	if err != nil {
		switch {
		case errors.Is(err, vision.ErrNoImages):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No images provided"})
		case errors.Is(err, vision.ErrNoValidImages):
			c.JSON(http.StatusNotFound, gin.H{"error": "No valid images found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Board analysis failed: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}
