package grading

import "math"

// Weighted pairs a per-question score in [0,1] with the question weight.
type Weighted struct {
	Score  float64
	Weight float64
}

// Aggregate returns the weighted percentage 100 * sum(s*w) / sum(w) rounded to
// two decimals. A submission without weight scores 0.
func Aggregate(items []Weighted) float64 {
	var earned, total float64
	for _, item := range items {
		earned += item.Score * item.Weight
		total += item.Weight
	}

	if total <= 0 {
		return 0
	}

	return RoundTo((earned/total)*100, 2)
}

// IsCorrect reports whether a per-question score counts as a correct answer.
// Only a perfect score does.
func IsCorrect(score float64) bool {
	return score == 1.0
}

// RoundTo rounds half away from zero to the given number of decimals.
func RoundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
