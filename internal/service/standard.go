package service

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/repository"
	"github.com/groundviewhq/groundview/internal/vision"
)

// StrategyStandard is the catalog-browsing strategy name.
const StrategyStandard = "standard"

// ImageStore is the metadata lookup surface strategies need.
type ImageStore interface {
	GetByID(ctx context.Context, id int64, tenant string) (*domain.Image, error)
	GetByIDs(ctx context.Context, ids []int64, tenant string) ([]domain.Image, error)
	Browse(ctx context.Context, tenant, folder string, favoritesOnly bool, limit int) ([]domain.Image, error)
	KeywordSearch(ctx context.Context, query, tenant string, limit int) ([]domain.Image, error)
	RecentAfter(ctx context.Context, tenant string, limit int) ([]domain.Image, error)
	ContextAssets(ctx context.Context, containerIDs []string, tenant string) ([]domain.Image, error)
}

// ObjectStore is the detected-object lookup surface.
type ObjectStore interface {
	GetEmbedding(ctx context.Context, objectID, tenant string) (pgvector.Vector, error)
	NearestByEmbedding(ctx context.Context, anchor pgvector.Vector, excludeObjectID, tenant string, limit int) ([]domain.ObjectMatch, error)
}

// VectorIndex is the nearest-neighbor surface over whole-image vectors.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, topK int, filters *repository.IndexFilters) ([]repository.ScoredImage, error)
}

// ByteLoader fetches raw image bytes for an anchor path.
type ByteLoader interface {
	Load(ctx context.Context, source string) ([]byte, error)
}

// StandardStrategy serves every tenant without a bespoke narrative layer:
// hybrid text search, anchor similarity and board analysis over the plain
// catalog.
type StandardStrategy struct {
	images   ImageStore
	objects  ObjectStore
	index    VectorIndex
	embedder EmbeddingProvider
	loader   ByteLoader
	analyzer *vision.Analyzer
	cfg      config.SearchConfig
	log      *logger.Logger
}

// NewStandardStrategy wires the standard strategy.
func NewStandardStrategy(
	images ImageStore,
	objects ObjectStore,
	index VectorIndex,
	embedder EmbeddingProvider,
	loader ByteLoader,
	analyzer *vision.Analyzer,
	cfg config.SearchConfig,
	log *logger.Logger,
) *StandardStrategy {
	return &StandardStrategy{
		images:   images,
		objects:  objects,
		index:    index,
		embedder: embedder,
		loader:   loader,
		analyzer: analyzer,
		cfg:      cfg,
		log:      log,
	}
}

func (s *StandardStrategy) Name() string { return StrategyStandard }

// Search runs hybrid retrieval: an empty query browses the catalog, a
// non-empty one merges semantic neighbors with keyword hits.
func (s *StandardStrategy) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	if req.Query == "" {
		images, err := s.images.Browse(ctx, req.Tenant, req.Folder, req.FavoritesOnly, topK)
		if err != nil {
			return nil, err
		}
		return imageResponse(imagesToResults(images), StrategyStandard, ""), nil
	}

	vector, err := s.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		logger.CtxWarn(ctx, "embedding unavailable, returning no matches: %v", err)
		return imageResponse(nil, StrategyStandard, ""), nil
	}

	pool := s.cfg.PoolMultiplier * topK
	if pool < s.cfg.PoolFloor {
		pool = s.cfg.PoolFloor
	}
	semantic, err := s.index.Search(ctx, vector, pool, &repository.IndexFilters{Tenant: req.Tenant})
	if err != nil {
		logger.CtxWarn(ctx, "vector index unavailable, returning no matches: %v", err)
		return imageResponse(nil, StrategyStandard, ""), nil
	}

	keyword, err := s.images.KeywordSearch(ctx, req.Query, req.Tenant, s.cfg.KeywordLimit)
	if err != nil {
		return nil, err
	}

	merged := mergeHybrid(semantic, keyword, HybridWeights{
		SimilarityFloor:  s.cfg.SimilarityFloor,
		KeywordBonus:     s.cfg.KeywordBonus,
		KeywordOnlyScore: s.cfg.KeywordOnlyScore,
	})

	results, err := s.hydrate(ctx, merged, req)
	if err != nil {
		return nil, err
	}
	if len(results) > topK {
		results = results[:topK]
	}

	logger.CtxDebug(ctx, "hybrid search returned %d of %d candidates", len(results), len(merged))
	return imageResponse(results, StrategyStandard, ""), nil
}

// hydrate resolves merged candidate ids to rows, re-applies the tenant
// filter and the optional folder and favorites filters, and preserves the
// merged score order.
func (s *StandardStrategy) hydrate(ctx context.Context, merged []scoredID, req *SearchRequest) ([]domain.ImageResult, error) {
	if len(merged) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(merged))
	for i, m := range merged {
		ids[i] = m.ID
	}
	rows, err := s.images.GetByIDs(ctx, ids, req.Tenant)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Image, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	results := make([]domain.ImageResult, 0, len(merged))
	for _, m := range merged {
		img, ok := byID[m.ID]
		if !ok {
			continue
		}
		if req.Tenant != "" && img.ProjectSlug != req.Tenant {
			continue
		}
		if req.Folder != "" && img.Folder != req.Folder {
			continue
		}
		if req.FavoritesOnly && !img.Favorite {
			continue
		}
		results = append(results, domain.ImageResult{Image: img, Score: m.Score})
	}
	return results, nil
}

// SearchByImage finds images visually similar to an existing anchor image.
func (s *StandardStrategy) SearchByImage(ctx context.Context, req *ImageSearchRequest) (*SearchResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	anchor, err := s.images.GetByID(ctx, req.ImageID, req.Tenant)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A missing anchor, or one outside the tenant, looks the same as
		// having no matches.
		logger.CtxWarn(ctx, "anchor image %d not found for tenant %q", req.ImageID, req.Tenant)
		return imageResponse(nil, StrategyStandard, ""), nil
	}
	if err != nil {
		return nil, err
	}

	data, err := s.loader.Load(ctx, anchor.FilePath)
	if err != nil {
		logger.CtxWarn(ctx, "anchor image %d unreadable: %v", req.ImageID, err)
		return imageResponse(nil, StrategyStandard, ""), nil
	}
	vector, err := s.embedder.EmbedImage(ctx, data)
	if err != nil {
		logger.CtxWarn(ctx, "embedding unavailable, returning no matches: %v", err)
		return imageResponse(nil, StrategyStandard, ""), nil
	}

	pool := s.cfg.AnchorPoolFactor * topK
	semantic, err := s.index.Search(ctx, vector, pool, &repository.IndexFilters{Tenant: req.Tenant})
	if err != nil {
		logger.CtxWarn(ctx, "vector index unavailable, returning no matches: %v", err)
		return imageResponse(nil, StrategyStandard, ""), nil
	}

	candidates, err := s.hydrateScored(ctx, semantic, req.Tenant)
	if err != nil {
		return nil, err
	}

	ranked := rerankAnchor(candidates, anchor.ID, anchor.Folder, req.Tenant, s.cfg.SameFolderBonus, topK)
	return imageResponse(ranked, StrategyStandard, ""), nil
}

func (s *StandardStrategy) hydrateScored(ctx context.Context, hits []repository.ScoredImage, tenant string) ([]domain.ImageResult, error) {
	if len(hits) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ImageID
	}
	rows, err := s.images.GetByIDs(ctx, ids, tenant)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Image, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	results := make([]domain.ImageResult, 0, len(hits))
	for _, hit := range hits {
		img, ok := byID[hit.ImageID]
		if !ok {
			continue
		}
		results = append(results, domain.ImageResult{Image: img, Score: hit.Score})
	}
	return results, nil
}

// SearchByObject finds images containing objects similar to an anchor
// detected object, using the store's native vector-distance ordering.
func (s *StandardStrategy) SearchByObject(ctx context.Context, req *ObjectSearchRequest) (*SearchResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	anchor, err := s.objects.GetEmbedding(ctx, req.ObjectID, req.Tenant)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.CtxWarn(ctx, "anchor object %s not found for tenant %q", req.ObjectID, req.Tenant)
		return imageResponse(nil, StrategyStandard, ""), nil
	}
	if err != nil {
		return nil, err
	}

	matches, err := s.objects.NearestByEmbedding(ctx, anchor, req.ObjectID, req.Tenant, 2*topK)
	if err != nil {
		return nil, err
	}

	ids := collapseObjectMatches(matches, topK)
	rows, err := s.images.GetByIDs(ctx, ids, req.Tenant)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Image, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	// Rank by the closest matching object, so convert each image's best
	// distance back to a descending score.
	bestDistance := make(map[int64]float32, len(matches))
	for _, m := range matches {
		if _, ok := bestDistance[m.ImageID]; !ok {
			bestDistance[m.ImageID] = m.Distance
		}
	}

	results := make([]domain.ImageResult, 0, len(ids))
	for _, id := range ids {
		img, ok := byID[id]
		if !ok {
			continue
		}
		results = append(results, domain.ImageResult{Image: img, Score: 1 - bestDistance[id]})
	}
	return imageResponse(results, StrategyStandard, ""), nil
}

// AnalyzeBoard aggregates the selected images into a vision-board profile.
func (s *StandardStrategy) AnalyzeBoard(ctx context.Context, req *BoardRequest) (*vision.Analysis, error) {
	if len(req.ImageIDs) == 0 {
		return nil, vision.ErrNoImages
	}
	images, err := s.images.GetByIDs(ctx, req.ImageIDs, req.Tenant)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(ctx, images)
}

func imagesToResults(images []domain.Image) []domain.ImageResult {
	results := make([]domain.ImageResult, len(images))
	for i, img := range images {
		results[i] = domain.ImageResult{Image: img}
	}
	return results
}

func imageResponse(results []domain.ImageResult, strategy, trustHeader string) *SearchResponse {
	items := make([]SearchItem, len(results))
	for i := range results {
		img := results[i].Image
		items[i] = SearchItem{
			Type:  ItemTypeImage,
			Score: results[i].Score,
			Image: &img,
		}
	}
	return &SearchResponse{
		Items:       items,
		TrustHeader: trustHeader,
		Strategy:    strategy,
	}
}
