package shotlist

import (
	"regexp"
	"strings"

	"github.com/shotplan/shotplan/internal/project"
	"github.com/shotplan/shotplan/internal/timecode"
)

// The parser recognizes structure with regular expressions rather than a
// grammar; shotlist documents are hand-authored and drift in formatting,
// so every pattern lives behind a named extraction function and degrades
// to an empty value instead of failing.
var (
	timeRangeRE   = regexp.MustCompile(`(\d+:\d+\.\d+)\s*[–-]\s*(\d+:\d+\.\d+)`)
	headingRE     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	bpmRE         = regexp.MustCompile(`(?i)(\d{2,3})\s*BPM`)
	italicRE      = regexp.MustCompile(`\*([^*]+)\*`)
	rapidCutRE    = regexp.MustCompile(`(?i)RAPID\s*CUT`)
	multiMarkerRE = regexp.MustCompile(`(?i)MULTI`)
)

// extractTimeRange finds the first "M:SS.ff – M:SS.ff" span in text.
// Returns [0, 0] when no range is present.
func extractTimeRange(text string) (float64, float64) {
	m := timeRangeRE.FindStringSubmatch(text)
	if m == nil {
		return 0, 0
	}
	return timecode.Parse(m[1]), timecode.Parse(m[2])
}

// extractField pulls the value of a "**Label:** value" line, with or
// without a leading list dash. Only the first line of the value counts.
func extractField(text, field string) string {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)\*\*` + regexp.QuoteMeta(field) + `:\*\*\s*(.+?)(?:\n|$)`),
		regexp.MustCompile(`(?i)- \*\*` + regexp.QuoteMeta(field) + `:\*\*\s*(.+?)(?:\n|$)`),
	}
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractCodeBlock returns the trimmed content of the first fenced code
// block at or after startIdx. A missing opening or closing fence yields
// an empty string.
func extractCodeBlock(text string, startIdx int) string {
	codeStart := strings.Index(text[startIdx:], "```")
	if codeStart == -1 {
		return ""
	}
	codeStart += startIdx
	lineEnd := strings.IndexByte(text[codeStart:], '\n')
	if lineEnd == -1 {
		return ""
	}
	contentStart := codeStart + lineEnd + 1
	codeEnd := strings.Index(text[contentStart:], "```")
	if codeEnd == -1 {
		return ""
	}
	return strings.TrimSpace(text[contentStart : contentStart+codeEnd])
}

// documentName returns the first level-1 heading, or fallback.
func documentName(content, fallback string) string {
	if m := headingRE.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fallback
}

// shotType classifies a shot span as multi when it carries a rapid-cut
// marker (RAPID CUT, MULTI, or the lightning glyph), otherwise solo.
func shotType(text string) string {
	if rapidCutRE.MatchString(text) || multiMarkerRE.MatchString(text) || strings.Contains(text, "⚡") {
		return project.TypeMulti
	}
	return project.TypeSolo
}
