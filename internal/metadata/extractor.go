// Package metadata extracts EXIF camera and location tags from raw image
// bytes. Extraction is best effort: any parse failure yields an empty
// record, never an error.
package metadata

import (
	"bytes"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"go.uber.org/zap"
)

// GPSCoordinates holds decimal-degree coordinates. A nil field means the
// tag was present but its rational triplet could not be converted.
type GPSCoordinates struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Metadata is the per-request record derived once from the image bytes.
// The zero value is the empty record.
type Metadata struct {
	GPS         *GPSCoordinates `json:"gps"`
	Software    *string         `json:"software"`
	CameraModel *string         `json:"camera_model"`
}

// Extractor parses embedded EXIF blocks.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor constructs an extractor that logs parse failures as warnings.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger.Named("metadata")}
}

// Extract returns the metadata embedded in data. Images without an EXIF
// block, or with one that cannot be parsed, produce the empty record.
func (e *Extractor) Extract(data []byte) Metadata {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("exif parse failed", zap.Error(err))
		return Metadata{}
	}

	var meta Metadata

	// The GPS record exists whenever a latitude tag exists; individual
	// coordinates that fail rational conversion stay nil inside it and
	// are reported as invalid by the geotag validator.
	if _, err := x.Get(exif.GPSLatitude); err == nil {
		meta.GPS = &GPSCoordinates{
			Lat: e.coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef),
			Lon: e.coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef),
		}
	}

	meta.Software = textTag(x, exif.Software)
	meta.CameraModel = textTag(x, exif.Model)

	return meta
}

func (e *Extractor) coordinate(x *exif.Exif, value, reference exif.FieldName) *float64 {
	tag, err := x.Get(value)
	if err != nil {
		return nil
	}
	refTag, err := x.Get(reference)
	if err != nil {
		return nil
	}
	ref, err := refTag.StringVal()
	if err != nil {
		return nil
	}
	dms, ok := rationalTriple(tag)
	if !ok {
		return nil
	}
	return dmsToDeg(dms, ref)
}

func rationalTriple(tag *tiff.Tag) ([3][2]int64, bool) {
	var dms [3][2]int64
	if tag == nil || tag.Count < 3 {
		return dms, false
	}
	for i := range dms {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return dms, false
		}
		dms[i] = [2]int64{num, den}
	}
	return dms, true
}

// dmsToDeg converts a degrees/minutes/seconds rational triple to decimal
// degrees, negating for southern and western hemispheres. A zero
// denominator yields nil.
func dmsToDeg(dms [3][2]int64, ref string) *float64 {
	var parts [3]float64
	for i, r := range dms {
		if r[1] == 0 {
			return nil
		}
		parts[i] = float64(r[0]) / float64(r[1])
	}
	dec := parts[0] + parts[1]/60.0 + parts[2]/3600.0
	if ref == "S" || ref == "W" {
		dec = -dec
	}
	return &dec
}

func textTag(x *exif.Exif, name exif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	value, err := tag.StringVal()
	if err != nil {
		// Non-ASCII payloads: keep whatever decodes, drop the rest.
		value = string(bytes.ToValidUTF8(tag.Val, nil))
	}
	value = strings.TrimRight(strings.ToValidUTF8(value, ""), "\x00")
	if value == "" {
		return nil
	}
	return &value
}
