package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/repository"
)

// ImageHandler handles image metadata endpoints.
type ImageHandler struct {
	images *repository.ImageRepository
	index  *repository.QdrantRepository
}

// NewImageHandler creates a new image handler.
func NewImageHandler(images *repository.ImageRepository, index *repository.QdrantRepository) *ImageHandler {
	return &ImageHandler{images: images, index: index}
}

func parseImageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
		return 0, false
	}
	return id, true
}

// Get handles GET /api/v1/images/:id.
func (h *ImageHandler) Get(c *gin.Context) {
	id, ok := parseImageID(c)
	if !ok {
		return
	}

	img, err := h.images.GetByID(c.Request.Context(), id, c.Query("tenant"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get image: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, img)
}

// Delete handles DELETE /api/v1/images/:id. The row and its index vector
// are removed together; a failed vector removal is logged, not surfaced,
// since the row is already gone.
func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := parseImageID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.images.Delete(ctx, id, c.Query("tenant")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image: " + err.Error()})
		return
	}

	if err := h.index.Delete(ctx, id); err != nil {
		logger.CtxWarn(ctx, "failed to remove vector for deleted image %d: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type favoriteBody struct {
	ID       int64  `json:"id" binding:"required"`
	Favorite bool   `json:"favorite"`
	Tenant   string `json:"tenant"`
}

// Favorite handles POST /api/v1/images/favorite.
func (h *ImageHandler) Favorite(c *gin.Context) {
	var body favoriteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.images.SetFavorite(c.Request.Context(), body.ID, body.Tenant, body.Favorite); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorite: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": body.ID, "favorite": body.Favorite})
}

type notesBody struct {
	ID     int64  `json:"id" binding:"required"`
	Notes  string `json:"notes"`
	Tenant string `json:"tenant"`
}

// Notes handles POST /api/v1/images/notes.
func (h *ImageHandler) Notes(c *gin.Context) {
	var body notesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.images.SetNotes(c.Request.Context(), body.ID, body.Tenant, body.Notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": body.ID})
}

// Folders handles GET /api/v1/folders.
func (h *ImageHandler) Folders(c *gin.Context) {
	folders, err := h.images.Folders(c.Request.Context(), c.Query("tenant"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list folders: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"folders": folders,
		"total":   len(folders),
	})
}
