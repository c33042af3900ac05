package grading

import (
	"math"
	"strings"
)

// ExactMatchScore returns 1 when the trimmed response equals the trimmed
// expected answer and 0 otherwise. Comparison is case-sensitive.
func ExactMatchScore(response, expected string) float64 {
	if strings.TrimSpace(response) == strings.TrimSpace(expected) {
		return 1.0
	}
	return 0.0
}

// CosineSimilarityScore compares the lower-cased, whitespace-tokenized term
// frequencies of both texts. Either side without tokens scores 0.
func CosineSimilarityScore(response, expected string) float64 {
	left := termFrequencies(response)
	right := termFrequencies(expected)

	var numerator float64
	for token, count := range left {
		if other, ok := right[token]; ok {
			numerator += float64(count * other)
		}
	}

	// sqrt(a*b) rather than sqrt(a)*sqrt(b) keeps identical texts at exactly 1.0
	denominator := math.Sqrt(squaredNorm(left) * squaredNorm(right))
	if denominator == 0 {
		return 0.0
	}

	return math.Min(1.0, numerator/denominator)
}

func termFrequencies(text string) map[string]int {
	tokens := strings.Fields(strings.ToLower(text))
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}

func squaredNorm(counts map[string]int) float64 {
	var sum float64
	for _, count := range counts {
		sum += float64(count * count)
	}
	return sum
}
