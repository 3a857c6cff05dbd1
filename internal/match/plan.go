package match

import (
	"strings"

	"github.com/shotplan/shotplan/internal/project"
)

// Expectation ties an expected stem to the shot or take it belongs to.
// TakeID is empty for solo shots.
type Expectation struct {
	Stem      string
	SectionID string
	ShotID    string
	TakeID    string
}

// Plan walks the project in section order and produces one expectation
// per solo shot and one per take of every multi shot.
func Plan(p *project.Project) []Expectation {
	var out []Expectation
	for _, sec := range p.Sections {
		for i, sh := range sec.Shots {
			if sh.IsMulti() {
				for _, tk := range sh.Takes {
					out = append(out, Expectation{
						Stem:      BuildShotStem(sec.Name, i, sh.Name, tk.Label),
						SectionID: sec.ID,
						ShotID:    sh.ID,
						TakeID:    tk.ID,
					})
				}
				continue
			}
			out = append(out, Expectation{
				Stem:      BuildShotStem(sec.Name, i, sh.Name, ""),
				SectionID: sec.ID,
				ShotID:    sh.ID,
			})
		}
	}
	return out
}

// Stems projects a plan to the bare stem list the matcher consumes.
func Stems(plan []Expectation) []string {
	stems := make([]string, len(plan))
	for i, e := range plan {
		stems[i] = e.Stem
	}
	return stems
}

// Assignments resolves matcher output back into store assignments, in
// plan order. Expectations that matched nothing are skipped.
func Assignments(plan []Expectation, matches map[string][]string) []project.Assignment {
	var out []project.Assignment
	for _, e := range plan {
		paths := matches[strings.ToLower(e.Stem)]
		if len(paths) == 0 {
			continue
		}
		out = append(out, project.Assignment{
			SectionID: e.SectionID,
			ShotID:    e.ShotID,
			TakeID:    e.TakeID,
			Path:      paths[0],
		})
	}
	return out
}
