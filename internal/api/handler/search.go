package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/groundviewhq/groundview/internal/service"
)

// SearchHandler handles the retrieval endpoints.
type SearchHandler struct {
	coordinator *service.StrategyCoordinator
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(coordinator *service.StrategyCoordinator) *SearchHandler {
	return &SearchHandler{coordinator: coordinator}
}

type searchBody struct {
	Query         string `json:"query"`
	TopK          int    `json:"top_k"`
	FavoritesOnly bool   `json:"favorites_only"`
	Folder        string `json:"folder"`
	Tenant        string `json:"tenant"`
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var body searchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.coordinator.Search(c.Request.Context(), &service.SearchRequest{
		Query:         body.Query,
		TopK:          body.TopK,
		FavoritesOnly: body.FavoritesOnly,
		Folder:        body.Folder,
		Tenant:        body.Tenant,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchGet handles GET /api/v1/search for simple query-string searches.
func (h *SearchHandler) SearchGet(c *gin.Context) {
	req := service.SearchRequest{
		Query:  c.Query("q"),
		Folder: c.Query("folder"),
		Tenant: c.Query("tenant"),
	}
	if topK := c.Query("top_k"); topK != "" {
		if n, err := strconv.Atoi(topK); err == nil {
			req.TopK = n
		}
	}
	if fav := c.Query("favorites_only"); fav != "" {
		req.FavoritesOnly = fav == "true" || fav == "1"
	}

	resp, err := h.coordinator.Search(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type similarBody struct {
	ID     int64  `json:"id" binding:"required"`
	TopK   int    `json:"top_k"`
	Tenant string `json:"tenant"`
}

// Similar handles POST /api/v1/search/similar.
func (h *SearchHandler) Similar(c *gin.Context) {
	var body similarBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.coordinator.SearchByImage(c.Request.Context(), &service.ImageSearchRequest{
		ImageID: body.ID,
		TopK:    body.TopK,
		Tenant:  body.Tenant,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Similar search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type objectSearchBody struct {
	ObjectID string `json:"object_id" binding:"required"`
	TopK     int    `json:"top_k"`
	Tenant   string `json:"tenant"`
}

// Object handles POST /api/v1/search/object.
func (h *SearchHandler) Object(c *gin.Context) {
	var body objectSearchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.coordinator.SearchByObject(c.Request.Context(), &service.ObjectSearchRequest{
		ObjectID: body.ObjectID,
		TopK:     body.TopK,
		Tenant:   body.Tenant,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Object search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
