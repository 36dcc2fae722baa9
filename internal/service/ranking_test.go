package service

import (
	"testing"

	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/repository"
)

var testWeights = HybridWeights{
	SimilarityFloor:  0.25,
	KeywordBonus:     0.50,
	KeywordOnlyScore: 0.45,
}

func keywordImages(ids ...int64) []domain.Image {
	images := make([]domain.Image, len(ids))
	for i, id := range ids {
		images[i] = domain.Image{ID: id}
	}
	return images
}

func TestMergeHybridFloorAndBonus(t *testing.T) {
	testCases := []struct {
		name     string
		semantic []repository.ScoredImage
		keyword  []domain.Image
		wantIDs  []int64
	}{
		{
			name: "below floor excluded",
			semantic: []repository.ScoredImage{
				{ImageID: 1, Score: 0.30},
				{ImageID: 2, Score: 0.20},
			},
			wantIDs: []int64{1},
		},
		{
			name: "keyword hit bypasses floor",
			semantic: []repository.ScoredImage{
				{ImageID: 1, Score: 0.10},
				{ImageID: 2, Score: 0.30},
			},
			keyword: keywordImages(1),
			wantIDs: []int64{1, 2}, // keyword-only 0.45 outranks semantic 0.30
		},
		{
			name: "keyword bonus outranks stronger semantic",
			semantic: []repository.ScoredImage{
				{ImageID: 1, Score: 0.30},
				{ImageID: 2, Score: 0.70},
			},
			keyword: keywordImages(1),
			wantIDs: []int64{1, 2}, // 0.30+0.50 beats 0.70
		},
		{
			name: "keyword-only candidates appended once",
			semantic: []repository.ScoredImage{
				{ImageID: 1, Score: 0.60},
			},
			keyword: keywordImages(1, 3),
			wantIDs: []int64{1, 3},
		},
		{
			name:    "pure keyword results",
			keyword: keywordImages(5, 6),
			wantIDs: []int64{5, 6},
		},
		{
			name: "everything below floor without keywords",
			semantic: []repository.ScoredImage{
				{ImageID: 1, Score: 0.24},
				{ImageID: 2, Score: 0.10},
			},
			wantIDs: []int64{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			merged := mergeHybrid(tc.semantic, tc.keyword, testWeights)
			if len(merged) != len(tc.wantIDs) {
				t.Fatalf("got %d results, want %d: %+v", len(merged), len(tc.wantIDs), merged)
			}
			for i, want := range tc.wantIDs {
				if merged[i].ID != want {
					t.Errorf("position %d: got id %d, want %d", i, merged[i].ID, want)
				}
			}
		})
	}
}

func TestMergeHybridScores(t *testing.T) {
	merged := mergeHybrid(
		[]repository.ScoredImage{
			{ImageID: 1, Score: 0.30},
			{ImageID: 2, Score: 0.40},
		},
		keywordImages(1, 3),
		testWeights,
	)

	scores := make(map[int64]float32, len(merged))
	for _, m := range merged {
		scores[m.ID] = m.Score
	}
	if got := scores[1]; got != 0.80 {
		t.Errorf("boosted score: got %v, want 0.80", got)
	}
	if got := scores[2]; got != 0.40 {
		t.Errorf("semantic score: got %v, want 0.40", got)
	}
	if got := scores[3]; got != 0.45 {
		t.Errorf("keyword-only score: got %v, want 0.45", got)
	}
}

func TestRerankAnchor(t *testing.T) {
	candidates := []domain.ImageResult{
		{Image: domain.Image{ID: 1, Folder: "patios", ProjectSlug: "acme"}, Score: 0.90}, // anchor itself
		{Image: domain.Image{ID: 2, Folder: "patios", ProjectSlug: "acme"}, Score: 0.60},
		{Image: domain.Image{ID: 3, Folder: "decks", ProjectSlug: "acme"}, Score: 0.65},
		{Image: domain.Image{ID: 4, Folder: "patios", ProjectSlug: "other"}, Score: 0.95},
	}

	ranked := rerankAnchor(candidates, 1, "patios", "acme", 0.08, 10)

	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(ranked), ranked)
	}
	// Same-folder bonus lifts id 2 to 0.68, above id 3 at 0.65.
	if ranked[0].ID != 2 || ranked[1].ID != 3 {
		t.Errorf("order: got [%d %d], want [2 3]", ranked[0].ID, ranked[1].ID)
	}
	if ranked[0].Score != 0.68 {
		t.Errorf("boosted score: got %v, want 0.68", ranked[0].Score)
	}
}

func TestRerankAnchorTruncates(t *testing.T) {
	candidates := []domain.ImageResult{
		{Image: domain.Image{ID: 2}, Score: 0.5},
		{Image: domain.Image{ID: 3}, Score: 0.6},
		{Image: domain.Image{ID: 4}, Score: 0.7},
	}

	ranked := rerankAnchor(candidates, 1, "", "", 0.08, 2)
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].ID != 4 || ranked[1].ID != 3 {
		t.Errorf("order: got [%d %d], want [4 3]", ranked[0].ID, ranked[1].ID)
	}
}

func TestCollapseObjectMatches(t *testing.T) {
	matches := []domain.ObjectMatch{
		{ObjectID: "a", ImageID: 10, Distance: 0.1},
		{ObjectID: "b", ImageID: 20, Distance: 0.2},
		{ObjectID: "c", ImageID: 10, Distance: 0.3}, // second object on image 10
		{ObjectID: "d", ImageID: 30, Distance: 0.4},
	}

	ids := collapseObjectMatches(matches, 10)
	want := []int64{10, 20, 30}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestCollapseObjectMatchesTruncates(t *testing.T) {
	matches := []domain.ObjectMatch{
		{ImageID: 1, Distance: 0.1},
		{ImageID: 2, Distance: 0.2},
		{ImageID: 3, Distance: 0.3},
	}
	ids := collapseObjectMatches(matches, 2)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("got %v, want [1 2]", ids)
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if v[0] != 0.6 || v[1] != 0.8 {
		t.Errorf("got %v, want [0.6 0.8]", v)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector changed: %v", zero)
	}
}
