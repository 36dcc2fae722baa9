// Package vision turns a set of selected catalog images into an aggregated
// design profile: dominant elements, clustered themes and a plain-text
// sales brief.
package vision

import (
	"context"
	"errors"
	"sort"

	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/logger"
	"github.com/groundviewhq/groundview/internal/taxonomy"
)

var (
	// ErrNoImages reports an empty board request.
	ErrNoImages = errors.New("no images provided")
	// ErrNoValidImages reports that none of the requested ids exist.
	ErrNoValidImages = errors.New("no valid images found")
)

const (
	topElementCount  = 15
	responseElements = 10
	categoryTagCap   = 5
)

// Loader fetches raw image bytes for a stored path.
type Loader interface {
	Load(ctx context.Context, source string) ([]byte, error)
}

// Embedder produces a vector for raw image bytes.
type Embedder interface {
	EmbedImage(ctx context.Context, imageData []byte) ([]float32, error)
}

// Analyzer aggregates board images into themes and insights. Theme
// clustering re-embeds each image, so boards are the most expensive
// operation the service runs.
type Analyzer struct {
	loader   Loader
	embedder Embedder
	log      *logger.Logger
}

// NewAnalyzer creates a board analyzer.
func NewAnalyzer(loader Loader, embedder Embedder, log *logger.Logger) *Analyzer {
	return &Analyzer{loader: loader, embedder: embedder, log: log}
}

// Element is one aggregated design element and its prevalence across the
// board.
type Element struct {
	Tag        string  `json:"tag"`
	Label      string  `json:"label"`
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float32 `json:"percentage"`
	Confidence float32 `json:"confidence"`
}

// Theme is one visual direction the board gravitates toward. Confidence is
// the theme's share of the clustered population.
type Theme struct {
	Name       string   `json:"name"`
	Confidence float32  `json:"confidence"`
	ImageIDs   []int64  `json:"image_ids"`
	TopTags    []string `json:"top_tags"`
	ImageCount int      `json:"image_count"`
}

// Analysis is the full board profile.
type Analysis struct {
	TotalImages      int       `json:"total_images"`
	Themes           []Theme   `json:"themes"`
	TopElements      []Element `json:"top_elements"`
	Materials        []string  `json:"materials"`
	PlantingSignals  []string  `json:"planting_signals"`
	LayoutPreference string    `json:"layout_preference,omitempty"`
	MaintenanceVibe  string    `json:"maintenance_vibe,omitempty"`
	Insights         []string  `json:"insights"`
	SalesBrief       string    `json:"sales_brief"`
	TagDiversity     int       `json:"tag_diversity"`
	AvgTagsPerImage  float32   `json:"avg_tags_per_image"`
}

// Analyze aggregates the hydrated board images into a full profile. The
// caller resolves ids to rows first; ids with no row are already gone.
func (a *Analyzer) Analyze(ctx context.Context, images []domain.Image) (*Analysis, error) {
	if len(images) == 0 {
		return nil, ErrNoValidImages
	}

	elements, tagTotal, distinct := aggregateTags(images)
	themes := a.clusterThemes(ctx, images)

	materials := categoryLabels(elements, taxonomy.CategoryMaterials)
	planting := categoryLabels(elements, taxonomy.CategoryPlanting)
	layouts := categoryLabels(elements, taxonomy.CategoryLayout)
	maintenance := categoryLabels(elements, taxonomy.CategoryMaintenance)

	insights := generateInsights(elements, themes)

	analysis := &Analysis{
		TotalImages:     len(images),
		Themes:          themes,
		TopElements:     truncateElements(elements, responseElements),
		Materials:       materials,
		PlantingSignals: planting,
		Insights:        insights,
		TagDiversity:    distinct,
		AvgTagsPerImage: float32(tagTotal) / float32(len(images)),
	}
	if len(layouts) > 0 {
		analysis.LayoutPreference = layouts[0]
	}
	if len(maintenance) > 0 {
		analysis.MaintenanceVibe = maintenance[0]
	}
	analysis.SalesBrief = renderSalesBrief(analysis)

	return analysis, nil
}

// aggregateTags counts tag occurrences across the board and averages each
// tag's per-image confidence. Tags with no stored score default to 0.5.
func aggregateTags(images []domain.Image) ([]Element, int, int) {
	counts := make(map[string]int)
	scoreSums := make(map[string]float32)
	scoreCounts := make(map[string]int)
	total := 0

	for _, img := range images {
		for _, tag := range img.Tags {
			counts[tag]++
			total++
			if score, ok := img.StyleScores[tag]; ok {
				scoreSums[tag] += score
				scoreCounts[tag]++
			}
		}
	}

	elements := make([]Element, 0, len(counts))
	for tag, count := range counts {
		confidence := float32(0.5)
		if n := scoreCounts[tag]; n > 0 {
			confidence = scoreSums[tag] / float32(n)
		}
		elements = append(elements, Element{
			Tag:        tag,
			Label:      taxonomy.Label(tag),
			Category:   taxonomy.Category(tag),
			Count:      count,
			Percentage: float32(count) / float32(len(images)) * 100,
			Confidence: confidence,
		})
	}

	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].Count != elements[j].Count {
			return elements[i].Count > elements[j].Count
		}
		return elements[i].Tag < elements[j].Tag
	})
	if len(elements) > topElementCount {
		elements = elements[:topElementCount]
	}
	return elements, total, len(counts)
}

func truncateElements(elements []Element, n int) []Element {
	if len(elements) > n {
		return elements[:n]
	}
	return elements
}

func categoryLabels(elements []Element, category string) []string {
	var labels []string
	for _, e := range elements {
		if e.Category != category {
			continue
		}
		labels = append(labels, e.Label)
		if len(labels) == categoryTagCap {
			break
		}
	}
	return labels
}
