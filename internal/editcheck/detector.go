// Package editcheck flags images whose EXIF software tag names a known
// editing tool. The rule set is a strict allow/deny list over fixed
// pattern fragments; there is no "unknown" outcome.
package editcheck

import "strings"

// editingTools are software-tag fragments that mark an image as edited.
// Ordered: the first match wins, so vendor names precede product names.
var editingTools = []string{
	"adobe",
	"photoshop",
	"pixlr",
	"canva",
	"lightroom",
	"remove.bg",
	"gimp",
	"fotor",
}

// mobileSources are fragments of stock mobile camera software. A match
// clears the image outright.
var mobileSources = []string{
	"android",
	"iphone",
	"samsung",
	"oneplus",
	"pixel",
	"vivo",
}

// Verdict reports whether editing was detected and by which tool.
type Verdict struct {
	Edited bool
	Tool   string
}

// Inspect matches the software tag against the known pattern sets.
// Matching is case-insensitive substring containment.
func Inspect(software, cameraModel *string) Verdict {
	sw := strings.ToLower(deref(software))

	for _, fragment := range editingTools {
		if strings.Contains(sw, fragment) {
			return Verdict{Edited: true, Tool: capitalize(fragment)}
		}
	}

	for _, source := range mobileSources {
		if strings.Contains(sw, source) {
			return Verdict{}
		}
	}

	if sw == "" && deref(cameraModel) == "" {
		return Verdict{}
	}

	// Unrecognized software is not treated as evidence of editing.
	return Verdict{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
