package similarity

import (
	"strings"

	"github.com/gabriel/reading-tracker/backend/internal/models"
)

type GenreCandidate struct {
	Keep       string  `json:"keep"`
	Merge      string  `json:"merge"`
	KeepCount  int     `json:"keepCount"`
	MergeCount int     `json:"mergeCount"`
	Score      float64 `json:"score"`
}

type TitleCandidate struct {
	A         models.BookTitle `json:"a"`
	B         models.BookTitle `json:"b"`
	Score     float64          `json:"score"`
	Contained bool             `json:"contained"`
}

// CountGenreUsage counts how many books carry each genre. The result follows
// the order in which genres are first seen.
func CountGenreUsage(bookGenres [][]string) []models.GenreUsage {
	index := make(map[string]int)
	usage := make([]models.GenreUsage, 0)

	for _, genres := range bookGenres {
		seenInBook := make(map[string]struct{}, len(genres))
		for _, raw := range genres {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if _, ok := seenInBook[name]; ok {
				continue
			}
			seenInBook[name] = struct{}{}

			position, ok := index[name]
			if !ok {
				index[name] = len(usage)
				usage = append(usage, models.GenreUsage{Name: name, Count: 1})
				continue
			}
			usage[position].Count++
		}
	}

	return usage
}

// GenreCandidates pairs genres whose normalized names are at least threshold
// similar. The more used genre is the one to keep; on a tie the one listed
// first wins.
func GenreCandidates(usage []models.GenreUsage, threshold float64) []GenreCandidate {
	normalized := make([]string, len(usage))
	for i, genre := range usage {
		normalized[i] = Normalize(genre.Name)
	}

	candidates := make([]GenreCandidate, 0)
	for i := 0; i < len(usage); i++ {
		if normalized[i] == "" {
			continue
		}
		for j := i + 1; j < len(usage); j++ {
			if normalized[j] == "" {
				continue
			}
			score := LevenshteinSimilarity(normalized[i], normalized[j])
			if score < threshold {
				continue
			}

			keep, merge := usage[i], usage[j]
			if merge.Count > keep.Count {
				keep, merge = merge, keep
			}
			candidates = append(candidates, GenreCandidate{
				Keep:       keep.Name,
				Merge:      merge.Name,
				KeepCount:  keep.Count,
				MergeCount: merge.Count,
				Score:      score,
			})
		}
	}

	return candidates
}

// TitleCandidates pairs books whose titles look like duplicates: a Dice score
// at or above threshold, or one normalized title containing the other.
func TitleCandidates(titles []models.BookTitle, threshold float64) []TitleCandidate {
	normalized := make([]string, len(titles))
	for i, title := range titles {
		normalized[i] = Normalize(title.Title)
	}

	candidates := make([]TitleCandidate, 0)
	for i := 0; i < len(titles); i++ {
		if normalized[i] == "" {
			continue
		}
		for j := i + 1; j < len(titles); j++ {
			if normalized[j] == "" {
				continue
			}
			score := Dice(normalized[i], normalized[j])
			contained := Contains(normalized[i], normalized[j])
			if score < threshold && !contained {
				continue
			}
			candidates = append(candidates, TitleCandidate{
				A:         titles[i],
				B:         titles[j],
				Score:     score,
				Contained: contained,
			})
		}
	}

	return candidates
}
