package vision

import (
	"context"
	"fmt"
	"sort"

	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/taxonomy"
)

const maxTagThemes = 3

// clusterThemes partitions the board into visual themes. Boards under 3
// images get a single theme; larger boards are re-embedded and clustered,
// falling back to dominant-style grouping when too few images load.
func (a *Analyzer) clusterThemes(ctx context.Context, images []domain.Image) []Theme {
	if len(images) < 3 {
		ids := imageIDs(images)
		return []Theme{{
			Name:       "Primary Style",
			Confidence: 1.0,
			ImageIDs:   ids,
			TopTags:    topTagsFor(images, 5),
			ImageCount: len(ids),
		}}
	}

	clusters := clusterCount(len(images))

	var (
		vectors  [][]float32
		validIDs []int64
	)
	for _, img := range images {
		data, err := a.loader.Load(ctx, img.FilePath)
		if err != nil {
			a.log.WithField("image_id", img.ID).Debug("skipping unreadable board image")
			continue
		}
		vector, err := a.embedder.EmbedImage(ctx, data)
		if err != nil {
			a.log.WithField("image_id", img.ID).WithError(err).Warn("failed to embed board image")
			continue
		}
		vectors = append(vectors, vector)
		validIDs = append(validIDs, img.ID)
	}

	if len(vectors) < 3 {
		return tagBasedThemes(images)
	}
	if clusters > len(vectors) {
		clusters = len(vectors)
	}

	labels, err := kmeans(vectors, clusters, 42)
	if err != nil {
		a.log.WithError(err).Warn("board clustering failed, grouping by style")
		return tagBasedThemes(images)
	}

	byID := make(map[int64]domain.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}

	themes := make([]Theme, 0, clusters)
	for cluster := 0; cluster < clusters; cluster++ {
		var (
			memberIDs []int64
			members   []domain.Image
		)
		for i, label := range labels {
			if label != cluster {
				continue
			}
			memberIDs = append(memberIDs, validIDs[i])
			members = append(members, byID[validIDs[i]])
		}
		if len(memberIDs) == 0 {
			continue
		}
		topTags := topTagsFor(members, 5)
		themes = append(themes, Theme{
			Name:       themeName(topTags),
			Confidence: float32(len(memberIDs)) / float32(len(vectors)),
			ImageIDs:   memberIDs,
			TopTags:    topTags,
			ImageCount: len(memberIDs),
		})
	}

	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Confidence > themes[j].Confidence
	})
	return themes
}

// clusterCount picks a theme count from the board size.
func clusterCount(n int) int {
	switch {
	case n < 6:
		return 2
	case n < 12:
		return 3
	default:
		k := n / 4
		if k > 5 {
			k = 5
		}
		return k
	}
}

// tagBasedThemes groups images by their dominant style tag.
func tagBasedThemes(images []domain.Image) []Theme {
	groups := make(map[string][]int64)
	for _, img := range images {
		for _, tag := range img.Tags {
			if taxonomy.Category(tag) == taxonomy.CategoryStyle {
				groups[tag] = append(groups[tag], img.ID)
				break
			}
		}
	}

	styleTags := make([]string, 0, len(groups))
	for tag := range groups {
		styleTags = append(styleTags, tag)
	}
	sort.SliceStable(styleTags, func(i, j int) bool {
		if len(groups[styleTags[i]]) != len(groups[styleTags[j]]) {
			return len(groups[styleTags[i]]) > len(groups[styleTags[j]])
		}
		return styleTags[i] < styleTags[j]
	})

	byID := make(map[int64]domain.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}

	themes := make([]Theme, 0, len(styleTags))
	for _, tag := range styleTags {
		ids := groups[tag]
		members := make([]domain.Image, 0, len(ids))
		for _, id := range ids {
			members = append(members, byID[id])
		}
		themes = append(themes, Theme{
			Name:       taxonomy.Label(tag),
			Confidence: float32(len(ids)) / float32(len(images)),
			ImageIDs:   ids,
			TopTags:    topTagsFor(members, 5),
			ImageCount: len(ids),
		})
		if len(themes) == maxTagThemes {
			break
		}
	}
	return themes
}

// topTagsFor returns the most common tags across a set of images.
func topTagsFor(images []domain.Image, limit int) []string {
	counts := make(map[string]int)
	for _, img := range images {
		for _, tag := range img.Tags {
			counts[tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.SliceStable(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// themeName derives a readable theme name from the theme's top tags,
// favoring style, material and layout vocabulary.
func themeName(topTags []string) string {
	if len(topTags) == 0 {
		return "Mixed Style"
	}

	var descriptive []string
	for _, tag := range topTags {
		switch taxonomy.Category(tag) {
		case taxonomy.CategoryStyle, taxonomy.CategoryMaterials, taxonomy.CategoryLayout:
			descriptive = append(descriptive, tag)
		}
	}

	switch {
	case len(descriptive) >= 2:
		return fmt.Sprintf("%s with %s", taxonomy.Label(descriptive[0]), taxonomy.Label(descriptive[1]))
	case len(descriptive) == 1:
		return taxonomy.Label(descriptive[0])
	default:
		return fmt.Sprintf("%s Focus", taxonomy.Label(topTags[0]))
	}
}

// generateInsights derives qualitative observations from the aggregated
// elements and themes.
func generateInsights(elements []Element, themes []Theme) []string {
	var insights []string

	lighting := elementsInCategory(elements, taxonomy.CategoryLighting)
	if len(lighting) > 0 && lighting[0].Percentage > 40 {
		insights = append(insights, fmt.Sprintf("Strong preference for %s (%.0f%% of selections)",
			lowerLabel(lighting[0].Label), lighting[0].Percentage))
	}

	hardscape := elementsInCategory(elements, taxonomy.CategoryHardscape)
	if len(hardscape) >= 3 {
		insights = append(insights, "Gravitates toward structured hardscape elements")
	}

	planting := elementsInCategory(elements, taxonomy.CategoryPlanting)
	if len(planting) > 0 {
		insights = append(insights, fmt.Sprintf("Planting preference: %s", lowerLabel(planting[0].Label)))
	}

	layout := elementsInCategory(elements, taxonomy.CategoryLayout)
	if len(layout) > 0 && layout[0].Percentage > 50 {
		insights = append(insights, fmt.Sprintf("Consistent preference for %s layouts", lowerLabel(layout[0].Label)))
	}

	switch {
	case len(themes) >= 3:
		insights = append(insights, "Exploring multiple design directions")
	case len(themes) == 1:
		insights = append(insights, "Highly focused design vision")
	}

	return insights
}

func elementsInCategory(elements []Element, category string) []Element {
	var out []Element
	for _, e := range elements {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

func imageIDs(images []domain.Image) []int64 {
	ids := make([]int64, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}
	return ids
}
