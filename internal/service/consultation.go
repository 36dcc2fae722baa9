package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/repository"
	"github.com/groundviewhq/groundview/internal/vision"
)

// StrategyConsultation is the narrative strategy name.
const StrategyConsultation = "consultation"

// ConsultationStrategy serves the single designated tenant with a narrative
// layer: results are completed-project containers rather than loose images,
// prefaced by a trust header and backed by knowledge cards when retrieval
// comes up weak.
type ConsultationStrategy struct {
	images   ImageStore
	index    VectorIndex
	embedder EmbeddingProvider
	engine   *ConsultationEngine
	cfg      config.ConsultationConfig
	log      *logger.Logger
}

// NewConsultationStrategy wires the consultative strategy.
func NewConsultationStrategy(
	images ImageStore,
	index VectorIndex,
	embedder EmbeddingProvider,
	engine *ConsultationEngine,
	cfg config.ConsultationConfig,
	log *logger.Logger,
) *ConsultationStrategy {
	return &ConsultationStrategy{
		images:   images,
		index:    index,
		embedder: embedder,
		engine:   engine,
		cfg:      cfg,
		log:      log,
	}
}

func (s *ConsultationStrategy) Name() string { return StrategyConsultation }

// Search retrieves completed "after" projects for the designated tenant.
// Weak or empty retrieval falls back to knowledge content instead of an
// empty list, and a matching knowledge card is spliced in after the first
// project as a narrative bridge.
func (s *ConsultationStrategy) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = 20
	}

	if req.Query == "" {
		return s.recentProjects(ctx, topK)
	}

	userCity := s.engine.ExtractCity(req.Query)
	trustHeader := s.engine.TrustHeader(req.Query, userCity)

	vector, err := s.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		logger.CtxWarn(ctx, "embedding unavailable, serving knowledge content: %v", err)
		return s.knowledgeResponse(req.Query, userCity, trustHeader), nil
	}

	hits, err := s.index.Search(ctx, vector, s.cfg.PoolSize, &repository.IndexFilters{
		Tenant: s.cfg.Tenant,
		Phase:  domain.PhaseAfter,
	})
	if err != nil {
		logger.CtxWarn(ctx, "vector index unavailable, serving knowledge content: %v", err)
		return s.knowledgeResponse(req.Query, userCity, trustHeader), nil
	}

	scores := make(map[int64]float32, len(hits))
	ids := make([]int64, 0, len(hits))
	var best float32
	for _, hit := range hits {
		ids = append(ids, hit.ImageID)
		scores[hit.ImageID] = hit.Score
		if hit.Score > best {
			best = hit.Score
		}
	}

	// Misses render as narrative content, so the floor sits higher than
	// the standard strategy's.
	if len(ids) == 0 || best < s.cfg.ConfidenceFloor {
		return s.knowledgeResponse(req.Query, userCity, trustHeader), nil
	}

	afterImages, err := s.images.GetByIDs(ctx, ids, s.cfg.Tenant)
	if err != nil {
		return nil, err
	}
	afterImages = filterPhase(afterImages, domain.PhaseAfter)
	if len(afterImages) == 0 {
		return s.knowledgeResponse(req.Query, userCity, trustHeader), nil
	}

	projects := groupIntoProjects(afterImages, scores)
	if err := s.attachContextAssets(ctx, projects); err != nil {
		logger.CtxWarn(ctx, "failed to fetch project context assets: %v", err)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Score > projects[j].Score
	})
	if len(projects) > topK {
		projects = projects[:topK]
	}

	items := make([]SearchItem, 0, len(projects)+1)
	for _, p := range projects {
		items = append(items, SearchItem{
			Type:    ItemTypeProject,
			Score:   p.Score,
			Project: p,
		})
	}

	if card := s.engine.KnowledgeCard(req.Query, userCity); card != nil {
		items = spliceCard(items, card)
	}

	return &SearchResponse{
		Items:       items,
		TrustHeader: trustHeader,
		Strategy:    StrategyConsultation,
	}, nil
}

func filterPhase(images []domain.Image, phase string) []domain.Image {
	filtered := make([]domain.Image, 0, len(images))
	for _, img := range images {
		if img.Phase == phase {
			filtered = append(filtered, img)
		}
	}
	return filtered
}

// groupIntoProjects buckets "after" images by their container id, keeping
// each project's best score. Images without a container become single-image
// projects under a temp id.
func groupIntoProjects(afterImages []domain.Image, scores map[int64]float32) []*ProjectResult {
	byContainer := make(map[string]*ProjectResult)
	var order []string

	for _, img := range afterImages {
		containerID := img.ContainerID
		if containerID == "" {
			containerID = fmt.Sprintf("temp_%d", img.ID)
		}
		project, ok := byContainer[containerID]
		if !ok {
			byContainer[containerID] = &ProjectResult{
				ContainerID: containerID,
				Hero:        img,
				Assets:      []domain.Image{img},
				Score:       scores[img.ID],
			}
			order = append(order, containerID)
			continue
		}
		project.Assets = append(project.Assets, img)
		if score := scores[img.ID]; score > project.Score {
			project.Score = score
		}
	}

	projects := make([]*ProjectResult, 0, len(order))
	for _, id := range order {
		projects = append(projects, byContainer[id])
	}
	return projects
}

// attachContextAssets fetches the before/during siblings for every real
// container in one query.
func (s *ConsultationStrategy) attachContextAssets(ctx context.Context, projects []*ProjectResult) error {
	byContainer := make(map[string]*ProjectResult, len(projects))
	var containerIDs []string
	for _, p := range projects {
		if strings.HasPrefix(p.ContainerID, "temp_") {
			continue
		}
		byContainer[p.ContainerID] = p
		containerIDs = append(containerIDs, p.ContainerID)
	}
	if len(containerIDs) == 0 {
		return nil
	}

	contextAssets, err := s.images.ContextAssets(ctx, containerIDs, s.cfg.Tenant)
	if err != nil {
		return err
	}
	for _, img := range contextAssets {
		if p, ok := byContainer[img.ContainerID]; ok {
			p.ContextAssets = append(p.ContextAssets, img)
		}
	}
	return nil
}

// spliceCard inserts a knowledge card after the first result.
func spliceCard(items []SearchItem, card *KnowledgeCard) []SearchItem {
	cardItem := SearchItem{Type: ItemTypeKnowledgeCard, Card: card}
	pos := 1
	if len(items) < 1 {
		pos = 0
	}
	items = append(items, SearchItem{})
	copy(items[pos+1:], items[pos:])
	items[pos] = cardItem
	return items
}

func (s *ConsultationStrategy) knowledgeResponse(query, userCity, trustHeader string) *SearchResponse {
	card := s.engine.KnowledgeCard(query, userCity)
	if card == nil {
		card = s.engine.FallbackCard(userCity)
	}
	return &SearchResponse{
		Items:       []SearchItem{{Type: ItemTypeKnowledgeCard, Card: card}},
		TrustHeader: trustHeader,
		Strategy:    StrategyConsultation,
	}
}

// recentProjects serves the empty query: the tenant's newest completed
// images as single-image projects under a generic header.
func (s *ConsultationStrategy) recentProjects(ctx context.Context, topK int) (*SearchResponse, error) {
	images, err := s.images.RecentAfter(ctx, s.cfg.Tenant, topK)
	if err != nil {
		return nil, err
	}

	items := make([]SearchItem, 0, len(images))
	for _, img := range images {
		containerID := img.ContainerID
		if containerID == "" {
			containerID = fmt.Sprintf("temp_%d", img.ID)
		}
		items = append(items, SearchItem{
			Type: ItemTypeProject,
			Project: &ProjectResult{
				ContainerID: containerID,
				Hero:        img,
				Assets:      []domain.Image{img},
			},
		})
	}

	header := fmt.Sprintf("Serving %s and %s since %d.",
		s.engine.profile.HQCity, s.engine.profile.Region, s.engine.profile.Founded)
	return &SearchResponse{
		Items:       items,
		TrustHeader: header,
		Strategy:    StrategyConsultation,
	}, nil
}

// SearchByImage is not part of the consultative surface.
func (s *ConsultationStrategy) SearchByImage(ctx context.Context, req *ImageSearchRequest) (*SearchResponse, error) {
	return &SearchResponse{Items: []SearchItem{}, Strategy: StrategyConsultation}, nil
}

// SearchByObject is not part of the consultative surface.
func (s *ConsultationStrategy) SearchByObject(ctx context.Context, req *ObjectSearchRequest) (*SearchResponse, error) {
	return &SearchResponse{Items: []SearchItem{}, Strategy: StrategyConsultation}, nil
}

// AnalyzeBoard is not part of the consultative surface.
func (s *ConsultationStrategy) AnalyzeBoard(ctx context.Context, req *BoardRequest) (*vision.Analysis, error) {
	return &vision.Analysis{}, nil
}
