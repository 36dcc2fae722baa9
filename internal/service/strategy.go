package service

import (
	"context"

	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/vision"
)

// Result item kinds returned by search strategies.
const (
	ItemTypeImage         = "image"
	ItemTypeProject       = "project"
	ItemTypeKnowledgeCard = "knowledge_card"
)

// SearchRequest is a text search over the catalog.
type SearchRequest struct {
	Query         string
	TopK          int
	FavoritesOnly bool
	Folder        string
	Tenant        string
}

// ImageSearchRequest finds images similar to an existing anchor image.
type ImageSearchRequest struct {
	ImageID int64
	TopK    int
	Tenant  string
}

// ObjectSearchRequest finds images containing objects similar to an anchor
// detected object.
type ObjectSearchRequest struct {
	ObjectID string
	TopK     int
	Tenant   string
}

// BoardRequest aggregates a set of selected images into a vision board.
type BoardRequest struct {
	ImageIDs []int64
	Tenant   string
}

// ProjectResult is a narrative grouping of one completed job: its hero
// image, the finished assets and the before/during context assets.
type ProjectResult struct {
	ContainerID   string         `json:"container_id"`
	Hero          domain.Image   `json:"hero"`
	Assets        []domain.Image `json:"assets"`
	ContextAssets []domain.Image `json:"context_assets,omitempty"`
	Score         float32        `json:"score"`
}

// KnowledgeCard is templated narrative content injected when direct matches
// are weak or absent.
type KnowledgeCard struct {
	Title        string   `json:"title"`
	Fact         string   `json:"fact"`
	LocalContext string   `json:"local_context"`
	VisualTags   []string `json:"visual_tags,omitempty"`
}

// SearchItem is one entry of a search response. Exactly one of Image,
// Project or Card is set, indicated by Type.
type SearchItem struct {
	Type    string         `json:"type"`
	Score   float32        `json:"score"`
	Image   *domain.Image  `json:"image,omitempty"`
	Project *ProjectResult `json:"project,omitempty"`
	Card    *KnowledgeCard `json:"card,omitempty"`
}

// SearchResponse is the full payload of a search operation.
type SearchResponse struct {
	Items       []SearchItem `json:"items"`
	TrustHeader string       `json:"trust_header,omitempty"`
	Strategy    string       `json:"strategy"`
}

// SearchStrategy is one retrieval behavior. The coordinator picks an
// implementation per tenant and dispatches every operation through it.
type SearchStrategy interface {
	Name() string
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
	SearchByImage(ctx context.Context, req *ImageSearchRequest) (*SearchResponse, error)
	SearchByObject(ctx context.Context, req *ObjectSearchRequest) (*SearchResponse, error)
	AnalyzeBoard(ctx context.Context, req *BoardRequest) (*vision.Analysis, error)
}
