package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/repository"
)

type fakeImageStore struct {
	images  map[int64]domain.Image
	context []domain.Image
	recent  []domain.Image
}

func (f *fakeImageStore) GetByID(ctx context.Context, id int64, tenant string) (*domain.Image, error) {
	img, ok := f.images[id]
	if !ok || (tenant != "" && img.ProjectSlug != tenant) {
		return nil, gorm.ErrRecordNotFound
	}
	return &img, nil
}

func (f *fakeImageStore) GetByIDs(ctx context.Context, ids []int64, tenant string) ([]domain.Image, error) {
	var out []domain.Image
	for _, id := range ids {
		if img, ok := f.images[id]; ok {
			if tenant == "" || img.ProjectSlug == tenant {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (f *fakeImageStore) Browse(ctx context.Context, tenant, folder string, favoritesOnly bool, limit int) ([]domain.Image, error) {
	return nil, nil
}

func (f *fakeImageStore) KeywordSearch(ctx context.Context, query, tenant string, limit int) ([]domain.Image, error) {
	return nil, nil
}

func (f *fakeImageStore) RecentAfter(ctx context.Context, tenant string, limit int) ([]domain.Image, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeImageStore) ContextAssets(ctx context.Context, containerIDs []string, tenant string) ([]domain.Image, error) {
	var out []domain.Image
	for _, img := range f.context {
		for _, id := range containerIDs {
			if img.ContainerID == id {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

type fakeIndex struct {
	hits []repository.ScoredImage
	err  error
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, topK int, filters *repository.IndexFilters) ([]repository.ScoredImage, error) {
	return f.hits, f.err
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0}, nil
}

func (f *fakeEmbedder) EmbedImage(ctx context.Context, imageData []byte) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0, 1}, nil
}

func afterImage(id int64, container string) domain.Image {
	return domain.Image{
		ID:          id,
		ProjectSlug: "atlantic",
		Phase:       domain.PhaseAfter,
		ContainerID: container,
	}
}

func newTestConsultation(t *testing.T, images *fakeImageStore, index *fakeIndex) *ConsultationStrategy {
	t.Helper()
	log := logger.New(logger.DefaultConfig())
	engine, err := NewConsultationEngine("", log)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return NewConsultationStrategy(images, index, &fakeEmbedder{}, engine, config.ConsultationConfig{
		Tenant:          "atlantic",
		ConfidenceFloor: 0.23,
		PoolSize:        1000,
	}, log)
}

func TestConsultationGroupsProjects(t *testing.T) {
	images := &fakeImageStore{
		images: map[int64]domain.Image{
			1: afterImage(1, "proj-a"),
			2: afterImage(2, "proj-a"),
			3: afterImage(3, "proj-b"),
			4: afterImage(4, ""),
		},
		context: []domain.Image{
			{ID: 10, ProjectSlug: "atlantic", Phase: domain.PhaseBefore, ContainerID: "proj-a"},
		},
	}
	index := &fakeIndex{hits: []repository.ScoredImage{
		{ImageID: 1, Score: 0.40},
		{ImageID: 2, Score: 0.55},
		{ImageID: 3, Score: 0.50},
		{ImageID: 4, Score: 0.30},
	}}

	resp, err := newTestConsultation(t, images, index).Search(context.Background(), &SearchRequest{
		Query:  "backyard renovation",
		TopK:   10,
		Tenant: "atlantic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TrustHeader == "" {
		t.Error("trust header is empty")
	}

	var projects []*ProjectResult
	for _, item := range resp.Items {
		if item.Type == ItemTypeProject {
			projects = append(projects, item.Project)
		}
	}
	if len(projects) != 3 {
		t.Fatalf("got %d projects, want 3", len(projects))
	}

	// proj-a keeps its best member score and sorts first.
	if projects[0].ContainerID != "proj-a" {
		t.Errorf("first project = %s, want proj-a", projects[0].ContainerID)
	}
	if projects[0].Score != 0.55 {
		t.Errorf("proj-a score = %v, want 0.55", projects[0].Score)
	}
	if len(projects[0].Assets) != 2 {
		t.Errorf("proj-a has %d assets, want 2", len(projects[0].Assets))
	}
	if len(projects[0].ContextAssets) != 1 {
		t.Errorf("proj-a has %d context assets, want 1", len(projects[0].ContextAssets))
	}

	// The uncontained image becomes a single-image temp project.
	last := projects[2]
	if last.ContainerID != "temp_4" {
		t.Errorf("last project = %s, want temp_4", last.ContainerID)
	}
}

func TestConsultationSplicesKnowledgeCard(t *testing.T) {
	images := &fakeImageStore{
		images: map[int64]domain.Image{
			1: afterImage(1, "proj-a"),
			2: afterImage(2, "proj-b"),
		},
	}
	index := &fakeIndex{hits: []repository.ScoredImage{
		{ImageID: 1, Score: 0.50},
		{ImageID: 2, Score: 0.40},
	}}

	resp, err := newTestConsultation(t, images, index).Search(context.Background(), &SearchRequest{
		Query:  "granite patio",
		TopK:   10,
		Tenant: "atlantic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(resp.Items))
	}
	if resp.Items[0].Type != ItemTypeProject {
		t.Errorf("first item = %s, want project", resp.Items[0].Type)
	}
	if resp.Items[1].Type != ItemTypeKnowledgeCard {
		t.Errorf("second item = %s, want knowledge card after the first result", resp.Items[1].Type)
	}
	if resp.Items[2].Type != ItemTypeProject {
		t.Errorf("third item = %s, want project", resp.Items[2].Type)
	}
}

func TestConsultationLowConfidenceFallsBackToCard(t *testing.T) {
	images := &fakeImageStore{images: map[int64]domain.Image{
		1: afterImage(1, "proj-a"),
	}}
	index := &fakeIndex{hits: []repository.ScoredImage{
		{ImageID: 1, Score: 0.15}, // below the consultative floor
	}}

	resp, err := newTestConsultation(t, images, index).Search(context.Background(), &SearchRequest{
		Query:  "fire pit",
		TopK:   10,
		Tenant: "atlantic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TrustHeader == "" {
		t.Error("trust header is empty")
	}
	if len(resp.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(resp.Items))
	}
	if resp.Items[0].Type != ItemTypeKnowledgeCard {
		t.Errorf("item type = %s, want knowledge card", resp.Items[0].Type)
	}
	if resp.Items[0].Card == nil || resp.Items[0].Card.Title == "" {
		t.Error("knowledge card has no content")
	}
}

func TestConsultationIndexFailureServesKnowledge(t *testing.T) {
	images := &fakeImageStore{}
	index := &fakeIndex{err: errors.New("index offline")}

	resp, err := newTestConsultation(t, images, index).Search(context.Background(), &SearchRequest{
		Query: "stone steps", TopK: 5, Tenant: "atlantic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Type != ItemTypeKnowledgeCard {
		t.Errorf("expected a single knowledge card, got %+v", resp.Items)
	}
}

func TestConsultationEmptyQueryReturnsRecentProjects(t *testing.T) {
	images := &fakeImageStore{recent: []domain.Image{
		afterImage(7, "proj-x"),
		afterImage(8, ""),
	}}

	resp, err := newTestConsultation(t, images, &fakeIndex{}).Search(context.Background(), &SearchRequest{
		TopK:   10,
		Tenant: "atlantic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TrustHeader == "" {
		t.Error("trust header is empty")
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(resp.Items))
	}
	if resp.Items[0].Project.ContainerID != "proj-x" {
		t.Errorf("first container = %s, want proj-x", resp.Items[0].Project.ContainerID)
	}
	if resp.Items[1].Project.ContainerID != "temp_8" {
		t.Errorf("second container = %s, want temp_8", resp.Items[1].Project.ContainerID)
	}
}
