// Package match reconciles generated video files on disk against the
// shots and takes that expect them, by filename stem.
package match

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeComponent normalizes a name for use in a filename stem:
// lowercased, runs of non-alphanumeric characters collapsed to a single
// underscore, edge underscores trimmed. Total over any input; an
// all-symbol name sanitizes to the empty string.
func SanitizeComponent(s string) string {
	s = nonAlnumRE.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}

// BuildShotStem derives the expected output filename stem for a shot,
// or for one of its takes when takeLabel is non-empty. shotIndex is the
// zero-based position within the section; the zero-padded 1-based index
// in the stem keeps stems unique when two shots in a section share a
// name.
func BuildShotStem(sectionName string, shotIndex int, shotName, takeLabel string) string {
	stem := fmt.Sprintf("%s_%02d_%s",
		SanitizeComponent(sectionName), shotIndex+1, SanitizeComponent(shotName))
	if takeLabel != "" {
		stem += "_" + SanitizeComponent(takeLabel)
	}
	return stem
}
