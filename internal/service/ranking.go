package service

import (
	"sort"

	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/repository"
)

// HybridWeights are the tuned merge parameters for hybrid text search.
// The keyword bonus is large enough that any keyword-boosted candidate
// outranks any purely semantic candidate near the floor, and the synthetic
// keyword-only score always clears the floor.
type HybridWeights struct {
	SimilarityFloor  float32
	KeywordBonus     float32
	KeywordOnlyScore float32
}

// mergeHybrid combines a semantic candidate pool with keyword hits into one
// descending-score list. Semantic candidates below the floor are dropped.
func mergeHybrid(semantic []repository.ScoredImage, keyword []domain.Image, w HybridWeights) []scoredID {
	keywordIDs := make(map[int64]bool, len(keyword))
	for _, img := range keyword {
		keywordIDs[img.ID] = true
	}

	merged := make([]scoredID, 0, len(semantic)+len(keyword))
	seen := make(map[int64]bool, len(semantic))
	for _, hit := range semantic {
		if hit.Score < w.SimilarityFloor {
			continue
		}
		score := hit.Score
		if keywordIDs[hit.ImageID] {
			score += w.KeywordBonus
		}
		merged = append(merged, scoredID{ID: hit.ImageID, Score: score})
		seen[hit.ImageID] = true
	}

	for _, img := range keyword {
		if seen[img.ID] {
			continue
		}
		merged = append(merged, scoredID{ID: img.ID, Score: w.KeywordOnlyScore})
		seen[img.ID] = true
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

type scoredID struct {
	ID    int64
	Score float32
}

// rerankAnchor filters and re-ranks a similar-image candidate pool around an
// anchor: the anchor itself and out-of-tenant rows are dropped, candidates
// sharing the anchor's folder get a soft additive bonus, and the result is
// sorted best first and truncated to topK.
func rerankAnchor(candidates []domain.ImageResult, anchorID int64, anchorFolder, tenant string, folderBonus float32, topK int) []domain.ImageResult {
	ranked := make([]domain.ImageResult, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == anchorID {
			continue
		}
		if tenant != "" && c.ProjectSlug != tenant {
			continue
		}
		if anchorFolder != "" && c.Folder == anchorFolder {
			c.Score += folderBonus
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// collapseObjectMatches reduces a distance-ordered object match list to
// distinct parent image ids, keeping first-occurrence order so an image's
// rank is set by its closest object, then truncates to topK.
func collapseObjectMatches(matches []domain.ObjectMatch, topK int) []int64 {
	seen := make(map[int64]bool, len(matches))
	ids := make([]int64, 0, topK)
	for _, m := range matches {
		if seen[m.ImageID] {
			continue
		}
		seen[m.ImageID] = true
		ids = append(ids, m.ImageID)
		if len(ids) == topK {
			break
		}
	}
	return ids
}
