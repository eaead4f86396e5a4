package inference

import (
	"bytes"
	"context"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	varianceSize  = 128
	varianceScale = 2000.0
)

// VarianceEstimator is the local fallback: heavily smoothed or flat-colored
// synthetic images tend toward lower pixel-intensity variance than
// photographic noise and detail. It is a crude, low-confidence signal of
// last resort and never returns an error.
type VarianceEstimator struct {
	logger *zap.Logger
}

// NewVarianceEstimator constructs the fallback estimator.
func NewVarianceEstimator(logger *zap.Logger) *VarianceEstimator {
	return &VarianceEstimator{logger: logger.Named("variance_estimator")}
}

// Estimate maps the population variance of a grayscale 128x128 rendition of
// the image onto [0,1]. Undecodable images score the neutral default.
func (e *VarianceEstimator) Estimate(_ context.Context, image []byte) (float64, error) {
	img, err := imaging.Decode(bytes.NewReader(image))
	if err != nil {
		e.logger.Warn("image decode failed, scoring neutral", zap.Error(err))
		return NeutralRealism, nil
	}

	gray := imaging.Grayscale(img)
	small := imaging.Resize(gray, varianceSize, varianceSize, imaging.Lanczos)

	// Grayscale NRGBA has R = G = B, so the red channel is the intensity.
	var sum, sumSq float64
	count := 0
	for y := 0; y < small.Rect.Dy(); y++ {
		row := small.Pix[y*small.Stride : y*small.Stride+small.Rect.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			v := float64(row[x])
			sum += v
			sumSq += v * v
			count++
		}
	}
	if count == 0 {
		return NeutralRealism, nil
	}

	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean

	return RoundScore(math.Min(variance/varianceScale, 1.0)), nil
}
