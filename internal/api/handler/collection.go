package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/repository"
)

// CollectionHandler handles saved vision-board collections.
type CollectionHandler struct {
	collections *repository.CollectionRepository
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(collections *repository.CollectionRepository) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// List handles GET /api/v1/collections.
func (h *CollectionHandler) List(c *gin.Context) {
	collections, err := h.collections.List(c.Request.Context(), c.Query("tenant"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collections: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"total":       len(collections),
	})
}

type createCollectionBody struct {
	Name   string `json:"name" binding:"required"`
	Tenant string `json:"tenant"`
}

// Create handles POST /api/v1/collections.
func (h *CollectionHandler) Create(c *gin.Context) {
	var body createCollectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	collection := &domain.Collection{
		Name:        body.Name,
		ProjectSlug: body.Tenant,
	}
	if err := h.collections.Create(c.Request.Context(), collection); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create collection: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, collection)
}

// Get handles GET /api/v1/collections/:id, returning the collection and
// its image ids in insertion order.
func (h *CollectionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection id"})
		return
	}
	ctx := c.Request.Context()

	collection, err := h.collections.Get(ctx, id, c.Query("tenant"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get collection: " + err.Error()})
		return
	}

	imageIDs, err := h.collections.ImageIDs(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get collection items: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
		"image_ids":  imageIDs,
	})
}

type collectionItemBody struct {
	CollectionID int64 `json:"collection_id" binding:"required"`
	ImageID      int64 `json:"image_id" binding:"required"`
}

// AddItem handles POST /api/v1/collections/items.
func (h *CollectionHandler) AddItem(c *gin.Context) {
	var body collectionItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.collections.AddItem(c.Request.Context(), body.CollectionID, body.ImageID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collection_id": body.CollectionID, "image_id": body.ImageID})
}

// RemoveItem handles DELETE /api/v1/collections/items.
func (h *CollectionHandler) RemoveItem(c *gin.Context) {
	var body collectionItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.collections.RemoveItem(c.Request.Context(), body.CollectionID, body.ImageID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collection_id": body.CollectionID, "image_id": body.ImageID})
}
