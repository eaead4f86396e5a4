// Package inference defines the realism estimation strategy used by the
// verification flow. A realism score is the estimated probability, in
// [0,1], that an image is an authentic photograph.
package inference

import (
	"context"
	"math"
)

// NeutralRealism is returned when no signal can be computed at all.
const NeutralRealism = 0.6

// Estimator produces a realism score for raw image bytes.
type Estimator interface {
	Estimate(ctx context.Context, image []byte) (float64, error)
}

// RoundScore rounds a realism score to three decimal places.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
