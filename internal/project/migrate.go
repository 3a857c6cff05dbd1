package project

import "regexp"

var legacyCutLabelRE = regexp.MustCompile(`(?i)^Cut\s+(\d+)$`)

// Migrate upgrades a project decoded from an older document to the
// current shape:
//
//   - shot field "cuts" becomes "takes"
//   - shot types "held" and "visual_only" become "solo", "rapid_cut"
//     becomes "multi"
//   - take labels "Cut N" become "Take N"
//
// There is no schema version field; legacy documents are detected
// structurally. Migrate is pure: the input is left untouched and shared
// nodes are only copied on the paths that actually change.
func Migrate(p *Project) *Project {
	if p == nil {
		return nil
	}

	changed := false
	sections := make([]*Section, len(p.Sections))
	for i, sec := range p.Sections {
		ns := migrateSection(sec)
		sections[i] = ns
		if ns != sec {
			changed = true
		}
	}
	if !changed {
		return p
	}

	np := *p
	np.Sections = sections
	return &np
}

func migrateSection(sec *Section) *Section {
	changed := false
	shots := make([]*Shot, len(sec.Shots))
	for i, sh := range sec.Shots {
		ns := migrateShot(sh)
		shots[i] = ns
		if ns != sh {
			changed = true
		}
	}
	if !changed {
		return sec
	}

	nsec := *sec
	nsec.Shots = shots
	return &nsec
}

func migrateShot(sh *Shot) *Shot {
	takes := sh.Takes
	cuts := sh.Cuts
	typ := migrateShotType(sh.Type)

	migratedTakes, takesChanged := migrateTakeLabels(takes)
	if len(cuts) > 0 && len(takes) == 0 {
		migratedTakes, _ = migrateTakeLabels(cuts)
		takesChanged = true
	}

	if typ == sh.Type && !takesChanged && len(cuts) == 0 {
		return sh
	}

	nsh := *sh
	nsh.Type = typ
	nsh.Takes = migratedTakes
	nsh.Cuts = nil
	return &nsh
}

func migrateShotType(t string) string {
	switch t {
	case "held", "visual_only":
		return TypeSolo
	case "rapid_cut":
		return TypeMulti
	default:
		return t
	}
}

func migrateTakeLabels(takes []*Take) ([]*Take, bool) {
	changed := false
	out := make([]*Take, len(takes))
	for i, tk := range takes {
		if m := legacyCutLabelRE.FindStringSubmatch(tk.Label); m != nil {
			ntk := *tk
			ntk.Label = "Take " + m[1]
			out[i] = &ntk
			changed = true
			continue
		}
		out[i] = tk
	}
	if !changed {
		return takes, false
	}
	return out, true
}
