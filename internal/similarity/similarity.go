// Package similarity finds near-duplicate genres and titles in a small
// collection. Scans compare every pair and keep no index between runs.
package similarity

import (
	"strings"
)

const (
	DefaultGenreThreshold = 0.75
	DefaultTitleThreshold = 0.70
)

func Levenshtein(a, b string) int {
	left := []rune(a)
	right := []rune(b)
	if len(left) == 0 {
		return len(right)
	}
	if len(right) == 0 {
		return len(left)
	}

	previous := make([]int, len(right)+1)
	current := make([]int, len(right)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(left); i++ {
		current[0] = i
		for j := 1; j <= len(right); j++ {
			cost := 1
			if left[i-1] == right[j-1] {
				cost = 0
			}
			current[j] = min(previous[j]+1, current[j-1]+1, previous[j-1]+cost)
		}
		previous, current = current, previous
	}

	return previous[len(right)]
}

// LevenshteinSimilarity is 1 - distance/longest, so two empty strings score 1.
func LevenshteinSimilarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Dice is the Dice coefficient over character bigrams. Bigrams are
// counted as a multiset, so "aaaa" against itself scores 1.
func Dice(a, b string) float64 {
	if a == b {
		return 1
	}

	left := []rune(a)
	right := []rune(b)
	if len(left) < 2 || len(right) < 2 {
		return 0
	}

	counts := make(map[string]int, len(left)-1)
	for i := 0; i < len(left)-1; i++ {
		counts[string(left[i:i+2])]++
	}

	shared := 0
	for i := 0; i < len(right)-1; i++ {
		bigram := string(right[i : i+2])
		if counts[bigram] > 0 {
			counts[bigram]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(left)-1+len(right)-1)
}

// Contains reports whether either normalized value holds the other.
func Contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
