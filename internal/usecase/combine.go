package usecase

import (
	"math"

	"github.com/example/authenx/internal/metadata"
)

// Fixed scoring weights. These are empirically chosen constants; changing
// any of them changes classification behavior.
const (
	realismWeight  = 0.7
	gpsBonus       = 0.1
	softwareBonus  = 0.05
	geoValidBonus  = 0.1
	editingPenalty = 0.25

	// Rescue clause: a high-realism image must not be penalized below a
	// usable threshold purely by metadata absence. The asymmetry is
	// deliberate.
	rescueCeiling = 0.3
	rescueRealism = 0.6
	rescueBonus   = 0.3
)

// combineScore merges the pipeline signals into the final authenticity
// score in [0,1], rounded to two decimals. Pure function.
func combineScore(meta metadata.Metadata, realism float64, edited, geoValid bool) float64 {
	score := realism * realismWeight
	if meta.GPS != nil {
		score += gpsBonus
	}
	if meta.Software != nil {
		score += softwareBonus
	}
	if geoValid {
		score += geoValidBonus
	}
	if edited {
		score -= editingPenalty
	}
	if score < rescueCeiling && realism > rescueRealism {
		score += rescueBonus
	}
	score = math.Max(math.Min(score, 1.0), 0.0)
	return math.Round(score*100) / 100
}
