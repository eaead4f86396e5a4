// Package geotag sanity-checks embedded GPS coordinates. Absence of GPS
// data is neutral, not a penalty.
package geotag

import (
	"math"

	"github.com/example/authenx/internal/metadata"
)

// nullIslandEpsilon bounds how close to (0,0) a coordinate pair may sit
// before it is treated as a default/stripped value.
const nullIslandEpsilon = 0.0001

// Validity is the outcome of a geotag check with a human-readable reason.
type Validity struct {
	Valid  bool
	Reason string
}

// Check validates an optional coordinate pair.
func Check(gps *metadata.GPSCoordinates) Validity {
	if gps == nil {
		return Validity{Valid: true, Reason: "No GPS — neutral"}
	}
	if gps.Lat == nil || gps.Lon == nil {
		return Validity{Valid: false, Reason: "Invalid GPS"}
	}
	if math.Abs(*gps.Lat) < nullIslandEpsilon && math.Abs(*gps.Lon) < nullIslandEpsilon {
		return Validity{Valid: false, Reason: "GPS (0,0)"}
	}
	return Validity{Valid: true, Reason: "GPS valid"}
}
