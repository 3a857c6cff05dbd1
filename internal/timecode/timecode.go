// Package timecode parses and formats the M:SS.ff timestamps used by
// shotlist documents (e.g. "1:03.90" is 63.9 seconds).
package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var timestampRE = regexp.MustCompile(`^(\d+):(\d+)\.(\d+)$`)

// Parse converts an M:SS.ff timestamp into seconds. Any input that does
// not match the format yields 0 rather than an error; shotlist documents
// are hand-edited and the parser treats missing timing as zero.
func Parse(ts string) float64 {
	m := timestampRE.FindStringSubmatch(strings.TrimSpace(ts))
	if m == nil {
		return 0
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	fraction, _ := strconv.Atoi(m[3])
	return float64(minutes)*60 + float64(seconds) + float64(fraction)/100
}

// Format renders seconds as M:SS.ff with two-digit seconds and hundredths.
func Format(seconds float64) string {
	mins := int(seconds) / 60
	secs := seconds - float64(mins)*60
	whole := int(secs)
	frac := int(math.Round((secs - float64(whole)) * 100))
	if frac == 100 {
		whole++
		frac = 0
		if whole == 60 {
			mins++
			whole = 0
		}
	}
	return fmt.Sprintf("%d:%02d.%02d", mins, whole, frac)
}
