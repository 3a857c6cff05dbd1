package shotlist

import (
	"regexp"
	"strings"

	"github.com/shotplan/shotplan/internal/project"
)

const defaultCharacterSection = "CHARACTER ESTABLISHMENT"

// Character docs list reusable reference shots as:
// ## SHOT 1 (optional note) — Hero close-up
var characterShotRE = regexp.MustCompile(`## SHOT (\d+)(?:\s*\(([^)]*)\))?\s*—\s*(.+?)\n`)

// ParseCharacterDoc extracts character-establishment shots from the
// secondary markdown document. Each shot's reference image prompt is the
// fenced code block following its heading. Timing and media fields stay
// empty; these shots exist to pin down character appearance before any
// timed shot is generated.
func ParseCharacterDoc(content string) []*project.Shot {
	matches := characterShotRE.FindAllStringSubmatchIndex(content, -1)
	shots := make([]*project.Shot, 0, len(matches))

	for _, m := range matches {
		num := content[m[2]:m[3]]
		title := strings.TrimSpace(content[m[6]:m[7]])

		shots = append(shots, &project.Shot{
			ID:             project.NewID(),
			Name:           "Character " + num + " — " + title,
			Type:           project.TypeSolo,
			Concept:        "Character establishment: " + title,
			RefImagePrompt: extractCodeBlock(content, m[0]),
			RefImages:      []project.RefImage{},
			EndRefImages:   []project.RefImage{},
		})
	}

	return shots
}

// ParseAll parses the shotlist document and, when a character document
// is provided and yields at least one shot, prepends a synthetic
// character section named after the document's heading.
func ParseAll(shotlistContent, characterContent string) *project.Project {
	p := Parse(shotlistContent)

	if characterContent == "" {
		return p
	}
	shots := ParseCharacterDoc(characterContent)
	if len(shots) == 0 {
		return p
	}

	name := strings.ToUpper(documentName(characterContent, defaultCharacterSection))
	section := &project.Section{
		ID:          project.NewID(),
		Name:        name,
		Description: "Generate these FIRST — character bible reference shots",
		Shots:       shots,
	}
	p.Sections = append([]*project.Section{section}, p.Sections...)
	return p
}
