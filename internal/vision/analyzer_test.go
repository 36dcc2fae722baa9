package vision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/logger"
)

type stubLoader struct {
	failAll bool
}

func (s *stubLoader) Load(ctx context.Context, source string) ([]byte, error) {
	if s.failAll {
		return nil, errors.New("unreadable")
	}
	return []byte("image-bytes"), nil
}

type stubEmbedder struct{}

func (s *stubEmbedder) EmbedImage(ctx context.Context, imageData []byte) ([]float32, error) {
	return []float32{1, 0}, nil
}

func newTestAnalyzer(loader Loader, embedder Embedder) *Analyzer {
	return NewAnalyzer(loader, embedder, logger.New(logger.DefaultConfig()))
}

func boardImage(id int64, tags []string, scores map[string]float32) domain.Image {
	return domain.Image{
		ID:          id,
		FilePath:    "img.jpg",
		Tags:        tags,
		StyleScores: scores,
	}
}

func TestAnalyzeEmptyBoard(t *testing.T) {
	a := newTestAnalyzer(&stubLoader{}, &stubEmbedder{})
	if _, err := a.Analyze(context.Background(), nil); !errors.Is(err, ErrNoValidImages) {
		t.Errorf("got %v, want ErrNoValidImages", err)
	}
}

func TestAnalyzeSmallBoardSingleTheme(t *testing.T) {
	a := newTestAnalyzer(&stubLoader{}, &stubEmbedder{})

	images := []domain.Image{
		boardImage(1, []string{"modern_minimalist", "natural_stone"}, map[string]float32{"modern_minimalist": 0.9}),
		boardImage(2, []string{"modern_minimalist"}, nil),
	}

	analysis, err := a.Analyze(context.Background(), images)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.TotalImages != 2 {
		t.Errorf("TotalImages = %d, want 2", analysis.TotalImages)
	}
	if len(analysis.Themes) != 1 {
		t.Fatalf("got %d themes, want 1 for a board under 3 images", len(analysis.Themes))
	}
	theme := analysis.Themes[0]
	if theme.Confidence != 1.0 {
		t.Errorf("theme confidence = %v, want 1.0", theme.Confidence)
	}
	if len(theme.ImageIDs) != 2 {
		t.Errorf("theme covers %d images, want 2", len(theme.ImageIDs))
	}
}

func TestAnalyzeAggregation(t *testing.T) {
	a := newTestAnalyzer(&stubLoader{}, &stubEmbedder{})

	// modern_minimalist appears on 2 of 3 images (66.7%).
	images := []domain.Image{
		boardImage(1, []string{"modern_minimalist", "natural_stone"}, map[string]float32{"modern_minimalist": 0.8}),
		boardImage(2, []string{"modern_minimalist"}, map[string]float32{"modern_minimalist": 0.6}),
		boardImage(3, []string{"cottage_garden"}, nil),
	}

	analysis, err := a.Analyze(context.Background(), images)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var elem *Element
	for i := range analysis.TopElements {
		if analysis.TopElements[i].Tag == "modern_minimalist" {
			elem = &analysis.TopElements[i]
			break
		}
	}
	if elem == nil {
		t.Fatal("modern_minimalist missing from top elements")
	}
	if elem.Count != 2 {
		t.Errorf("count = %d, want 2", elem.Count)
	}
	if elem.Percentage < 66.6 || elem.Percentage > 66.8 {
		t.Errorf("percentage = %v, want about 66.7", elem.Percentage)
	}
	if elem.Confidence < 0.69 || elem.Confidence > 0.71 {
		t.Errorf("confidence = %v, want mean 0.7", elem.Confidence)
	}
	if elem.Category != "style" {
		t.Errorf("category = %s, want style", elem.Category)
	}
}

func TestAnalyzeFallsBackToStyleGroups(t *testing.T) {
	// Every image fails to load, so clustering cannot run and themes come
	// from dominant style tags.
	a := newTestAnalyzer(&stubLoader{failAll: true}, &stubEmbedder{})

	images := []domain.Image{
		boardImage(1, []string{"modern_minimalist"}, nil),
		boardImage(2, []string{"modern_minimalist"}, nil),
		boardImage(3, []string{"cottage_garden"}, nil),
		boardImage(4, []string{"rustic"}, nil),
		boardImage(5, []string{"traditional"}, nil),
	}

	analysis, err := a.Analyze(context.Background(), images)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analysis.Themes) != 3 {
		t.Fatalf("got %d themes, want max 3 style groups", len(analysis.Themes))
	}
	if analysis.Themes[0].Name != "Modern Minimalist" {
		t.Errorf("top theme = %q, want Modern Minimalist", analysis.Themes[0].Name)
	}
	if analysis.Themes[0].ImageCount != 2 {
		t.Errorf("top theme size = %d, want 2", analysis.Themes[0].ImageCount)
	}
}

func TestAnalyzeBriefSections(t *testing.T) {
	a := newTestAnalyzer(&stubLoader{}, &stubEmbedder{})

	images := []domain.Image{
		boardImage(1, []string{"modern_minimalist", "cedar", "low_maintenance"}, nil),
		boardImage(2, []string{"cedar", "naturalistic"}, nil),
	}

	analysis, err := a.Analyze(context.Background(), images)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	brief := analysis.SalesBrief
	for _, section := range []string{"CLIENT DESIGN PROFILE", "PRIMARY THEMES:", "TOP DESIGN ELEMENTS:", "MATERIAL PREFERENCES:"} {
		if !strings.Contains(brief, section) {
			t.Errorf("brief missing section %q:\n%s", section, brief)
		}
	}
	if !strings.Contains(brief, "Cedar") {
		t.Errorf("brief missing material label:\n%s", brief)
	}
	if analysis.MaintenanceVibe != "Low Maintenance" {
		t.Errorf("MaintenanceVibe = %q, want Low Maintenance", analysis.MaintenanceVibe)
	}
}

func TestInsightsHeuristics(t *testing.T) {
	elements := []Element{
		{Tag: "uplighting", Category: "lighting", Label: "Uplighting", Percentage: 60},
		{Tag: "natural_stone", Category: "hardscape", Label: "Natural Stone", Percentage: 30},
		{Tag: "retaining_wall", Category: "hardscape", Label: "Retaining Wall", Percentage: 30},
		{Tag: "gravel", Category: "hardscape", Label: "Gravel", Percentage: 20},
		{Tag: "naturalistic", Category: "planting_style", Label: "Naturalistic", Percentage: 40},
		{Tag: "courtyard", Category: "layout", Label: "Courtyard", Percentage: 55},
	}
	themes := []Theme{{Name: "only one"}}

	insights := generateInsights(elements, themes)

	wantParts := []string{
		"Strong preference for uplighting",
		"structured hardscape",
		"Planting preference: naturalistic",
		"courtyard layouts",
		"Highly focused design vision",
	}
	for _, part := range wantParts {
		found := false
		for _, insight := range insights {
			if strings.Contains(insight, part) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("insights %v missing %q", insights, part)
		}
	}
}

func TestThemeName(t *testing.T) {
	testCases := []struct {
		name string
		tags []string
		want string
	}{
		{"two descriptive tags", []string{"modern_minimalist", "cedar"}, "Modern Minimalist with Cedar"},
		{"one descriptive tag", []string{"rustic", "uplighting"}, "Rustic"},
		{"no descriptive tags", []string{"uplighting"}, "Uplighting Focus"},
		{"no tags at all", nil, "Mixed Style"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := themeName(tc.tags); got != tc.want {
				t.Errorf("themeName(%v) = %q, want %q", tc.tags, got, tc.want)
			}
		})
	}
}
