// Package shotlist converts markdown shotlist documents into projects.
// Parsing is best-effort by contract: malformed or missing structure
// degrades to empty fields and empty collections, never an error, so
// hand-edited documents of varying strictness always import.
package shotlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shotplan/shotplan/internal/project"
)

const defaultProjectName = "Untitled Project"

var (
	// Section banners look like: ### ═══ VERSE 1 (0:13.04 – 0:39.11) ═══
	// with three or more delimiter characters on each side. ASCII "=" runs
	// are accepted alongside the box-drawing glyph.
	sectionBannerRE = regexp.MustCompile(`### [═=]{3,}\s*(.+?)\s*\(([^)]+)\)\s*[═=]{3,}`)

	// Shot headers look like: **Shot A2 — "Rules First"**
	shotHeaderRE = regexp.MustCompile(`\*\*Shot\s+(\w+)\s*—\s*(.+?)\*\*`)

	// Take lines look like: CUT 1 (0:13.04 – 0:14.80): whip-pan to hands
	takeLineRE = regexp.MustCompile(`CUT\s+(\d+)\s*\(([^)]+)\):\s*(.+?)(?:\n|$)`)
)

// Parse converts a shotlist document into a project with a fresh id.
// A document with no recognizable section banners yields a project with
// zero sections.
func Parse(content string) *project.Project {
	p := &project.Project{
		ID:            project.NewID(),
		Name:          documentName(content, defaultProjectName),
		BPM:           extractBPM(content),
		Sections:      []*project.Section{},
		DefaultParams: project.Params{},
	}

	banners := sectionBannerRE.FindAllStringSubmatchIndex(content, -1)
	for i, banner := range banners {
		end := len(content)
		if i+1 < len(banners) {
			end = banners[i+1][0]
		}
		span := content[banner[0]:end]

		name := strings.TrimSpace(content[banner[2]:banner[3]])
		timeRange := content[banner[4]:banner[5]]
		startTime, endTime := extractTimeRange(timeRange)

		p.Sections = append(p.Sections, &project.Section{
			ID:          project.NewID(),
			Name:        name,
			StartTime:   startTime,
			EndTime:     endTime,
			Description: extractDescription(span),
			Shots:       parseShots(span),
		})
	}

	return p
}

func extractBPM(content string) int {
	if m := bpmRE.FindStringSubmatch(content); m != nil {
		if bpm, err := strconv.Atoi(m[1]); err == nil {
			return bpm
		}
	}
	return 120
}

// extractDescription takes the first italicized run in the section span.
func extractDescription(span string) string {
	if m := italicRE.FindStringSubmatch(span); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func parseShots(span string) []*project.Shot {
	headers := shotHeaderRE.FindAllStringSubmatchIndex(span, -1)
	shots := make([]*project.Shot, 0, len(headers))

	for i, header := range headers {
		end := len(span)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		shotSpan := span[header[0]:end]

		shotID := strings.TrimSpace(span[header[2]:header[3]])
		title := strings.ReplaceAll(strings.TrimSpace(span[header[4]:header[5]]), `"`, "")

		startTime, endTime := extractTimeRange(shotSpan)
		sh := &project.Shot{
			ID:             project.NewID(),
			Name:           shotID + " — " + title,
			Type:           shotType(shotSpan),
			StartTime:      startTime,
			EndTime:        endTime,
			Lyric:          title,
			Concept:        extractField(shotSpan, "Concept"),
			Prompt:         extractPrompt(shotSpan, "**LTX-2 Prompt"),
			RefImagePrompt: extractPrompt(shotSpan, "**Ref Image Prompt"),
			RefImages:      []project.RefImage{},
			EndRefImages:   []project.RefImage{},
		}

		if sh.Type == project.TypeMulti {
			sh.Takes = parseTakes(shotSpan)
		}

		shots = append(shots, sh)
	}

	return shots
}

// extractPrompt finds the first occurrence of a bold heading prefix in
// the shot span and returns the fenced code block that follows it.
func extractPrompt(span, headingPrefix string) string {
	idx := strings.Index(span, headingPrefix)
	if idx == -1 {
		return ""
	}
	return extractCodeBlock(span, idx)
}

func parseTakes(shotSpan string) []*project.Take {
	matches := takeLineRE.FindAllStringSubmatch(shotSpan, -1)
	takes := make([]*project.Take, 0, len(matches))

	for _, m := range matches {
		num := strings.TrimSpace(m[1])
		startTime, endTime := extractTimeRange(m[2])

		takes = append(takes, &project.Take{
			ID:             project.NewID(),
			Label:          "Take " + num,
			StartTime:      startTime,
			EndTime:        endTime,
			Concept:        strings.TrimSpace(m[3]),
			RefImagePrompt: takeRefImagePrompt(shotSpan, num),
			RefImages:      []project.RefImage{},
			EndRefImages:   []project.RefImage{},
		})
	}

	return takes
}

// takeRefImagePrompt looks for a reference-image-prompt heading tied to
// take number num: first anchored on "Cut N"/"Angle N", then loosely on
// any heading containing the number. The loose pattern can match an
// unrelated heading carrying the same digit elsewhere in the shot span;
// that scope is deliberate.
func takeRefImagePrompt(shotSpan, num string) string {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`(?i)\*\*Ref Image Prompt\s*—\s*(?:Cut\s*%s|Angle\s*%s)[^*]*\*\*`, num, num)),
		regexp.MustCompile(fmt.Sprintf(`(?i)\*\*Ref Image Prompt\s*—[^*]*%s[^*]*\*\*`, num)),
	}
	for _, re := range patterns {
		if loc := re.FindStringIndex(shotSpan); loc != nil {
			return extractCodeBlock(shotSpan, loc[0])
		}
	}
	return ""
}
