package stats

import "sort"

// DefaultReviewBelow is the best score under which a lesson is worth redoing.
const DefaultReviewBelow = 70

// ReviewCandidates selects completed lessons whose best score is below the
// threshold, lowest score first.
func ReviewCandidates(rows []LessonRow, below, top int) []LessonRow {
	candidates := make([]LessonRow, 0, len(rows))
	for _, r := range rows {
		if r.HasScore && r.BestScore < below {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].BestScore == candidates[j].BestScore {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].BestScore < candidates[j].BestScore
	})
	if top > 0 && len(candidates) > top {
		candidates = candidates[:top]
	}
	return candidates
}
