package project

import (
	"strconv"
	"sync"
)

// Store owns the single open project and applies all mutations to it.
// Every mutation is a structural copy-on-write transformation: the
// target node and each ancestor up to the root are replaced with new
// values, while unrelated subtrees keep pointer identity. Callers that
// hold a snapshot from Current never observe a half-applied mutation.
//
// Operations addressing an id that does not exist leave the state
// unchanged; existence is checked through selection, not through
// mutation results.
type Store struct {
	mu      sync.RWMutex
	project *Project
}

// NewStore returns an empty store with no open project.
func NewStore() *Store {
	return &Store{}
}

// Current returns the open project snapshot, or nil. The returned tree
// must be treated as immutable.
func (s *Store) Current() *Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

// Set replaces the open project wholesale.
func (s *Store) Set(p *Project) {
	s.mu.Lock()
	s.project = p
	s.mu.Unlock()
}

// Close discards the open project.
func (s *Store) Close() {
	s.Set(nil)
}

// Create opens a fresh empty project.
func (s *Store) Create(name string) *Project {
	p := New(name)
	s.Set(p)
	return p
}

// UpdateProjectName renames the open project.
func (s *Store) UpdateProjectName(name string) {
	s.mutate(func(p *Project) *Project {
		np := *p
		np.Name = name
		return &np
	})
}

// SetMasterAudio records the master audio track filename; empty clears it.
func (s *Store) SetMasterAudio(filename string) {
	s.mutate(func(p *Project) *Project {
		np := *p
		np.MasterAudio = filename
		return &np
	})
}

// UpdateDefaultParams layers overrides onto the project-wide params.
func (s *Store) UpdateDefaultParams(params Params) {
	s.mutate(func(p *Project) *Project {
		np := *p
		np.DefaultParams = p.DefaultParams.Merge(params)
		return &np
	})
}

// AddSection inserts a new empty section after the given section, or at
// the end when afterSectionID is empty or unknown.
func (s *Store) AddSection(afterSectionID string) *Section {
	sec := &Section{
		ID:    NewID(),
		Name:  "New Section",
		Shots: []*Shot{},
	}
	s.mutate(func(p *Project) *Project {
		np := *p
		np.Sections = insertSection(p.Sections, sec, afterSectionID)
		return &np
	})
	return sec
}

// RemoveSection deletes the section with the given id.
func (s *Store) RemoveSection(sectionID string) {
	s.mutate(func(p *Project) *Project {
		out := make([]*Section, 0, len(p.Sections))
		found := false
		for _, sec := range p.Sections {
			if sec.ID == sectionID {
				found = true
				continue
			}
			out = append(out, sec)
		}
		if !found {
			return p
		}
		np := *p
		np.Sections = out
		return &np
	})
}

// ReorderSections rearranges sections to match the given id order.
// Unknown ids are dropped from the ordering.
func (s *Store) ReorderSections(sectionIDs []string) {
	s.mutate(func(p *Project) *Project {
		byID := make(map[string]*Section, len(p.Sections))
		for _, sec := range p.Sections {
			byID[sec.ID] = sec
		}
		out := make([]*Section, 0, len(sectionIDs))
		for _, id := range sectionIDs {
			if sec, ok := byID[id]; ok {
				out = append(out, sec)
			}
		}
		np := *p
		np.Sections = out
		return &np
	})
}

// UpdateSection applies fn to a shallow clone of the section.
func (s *Store) UpdateSection(sectionID string, fn func(*Section)) {
	s.updateSection(sectionID, func(sec *Section) *Section {
		nsec := *sec
		fn(&nsec)
		return &nsec
	})
}

// AddShot inserts a new solo shot into a section, after afterShotID when
// given, copying the neighbor's end time as the new start.
func (s *Store) AddShot(sectionID, afterShotID string) *Shot {
	sh := &Shot{
		ID:           NewID(),
		Name:         "New Shot",
		Type:         TypeSolo,
		RefImages:    []RefImage{},
		EndRefImages: []RefImage{},
	}
	s.updateSection(sectionID, func(sec *Section) *Section {
		nsec := *sec
		shots := make([]*Shot, 0, len(sec.Shots)+1)
		inserted := false
		for _, existing := range sec.Shots {
			shots = append(shots, existing)
			if afterShotID != "" && existing.ID == afterShotID {
				sh.StartTime = existing.EndTime
				sh.EndTime = existing.EndTime + 2
				shots = append(shots, sh)
				inserted = true
			}
		}
		if !inserted {
			shots = append(shots, sh)
		}
		nsec.Shots = shots
		return &nsec
	})
	return sh
}

// RemoveShot deletes a shot from a section.
func (s *Store) RemoveShot(sectionID, shotID string) {
	s.updateSection(sectionID, func(sec *Section) *Section {
		out := make([]*Shot, 0, len(sec.Shots))
		found := false
		for _, sh := range sec.Shots {
			if sh.ID == shotID {
				found = true
				continue
			}
			out = append(out, sh)
		}
		if !found {
			return sec
		}
		nsec := *sec
		nsec.Shots = out
		return &nsec
	})
}

// DuplicateShot inserts a deep copy of a shot (without reference images)
// right after the original.
func (s *Store) DuplicateShot(sectionID, shotID string) *Shot {
	var copied *Shot
	s.updateSection(sectionID, func(sec *Section) *Section {
		idx := -1
		for i, sh := range sec.Shots {
			if sh.ID == shotID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return sec
		}
		copied = deepCopyShot(sec.Shots[idx])
		copied.ID = NewID()
		copied.Name = sec.Shots[idx].Name + " (copy)"
		copied.RefImages = []RefImage{}
		copied.SelectedRefImageID = ""
		copied.EndRefImages = []RefImage{}
		copied.SelectedEndRefImageID = ""

		nsec := *sec
		shots := make([]*Shot, 0, len(sec.Shots)+1)
		shots = append(shots, sec.Shots[:idx+1]...)
		shots = append(shots, copied)
		shots = append(shots, sec.Shots[idx+1:]...)
		nsec.Shots = shots
		return &nsec
	})
	return copied
}

// UpdateShot applies fn to a shallow clone of the shot.
func (s *Store) UpdateShot(sectionID, shotID string, fn func(*Shot)) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		fn(&nsh)
		return &nsh
	})
}

// UpdateShotParams layers param overrides onto one shot.
func (s *Store) UpdateShotParams(sectionID, shotID string, params Params) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		if nsh.Params == nil {
			nsh.Params = Params{}
		}
		nsh.Params = nsh.Params.Merge(params)
		return &nsh
	})
}

// SetShotAudio attaches an audio guide filename to a shot; empty clears it.
func (s *Store) SetShotAudio(sectionID, shotID, audioFile string) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		nsh.AudioFile = audioFile
		return &nsh
	})
}

// AddRefImage appends a start reference image to a shot and selects it
// when nothing was selected before.
func (s *Store) AddRefImage(sectionID, shotID string, img RefImage) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		nsh.RefImages, nsh.SelectedRefImageID = addRef(sh.RefImages, sh.SelectedRefImageID, img)
		return &nsh
	})
}

// RemoveRefImage drops a start reference image. If it was selected, the
// selection falls to the first remaining image or clears.
func (s *Store) RemoveRefImage(sectionID, shotID, imageID string) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		nsh.RefImages, nsh.SelectedRefImageID = removeRef(sh.RefImages, sh.SelectedRefImageID, imageID)
		return &nsh
	})
}

// SelectRefImage marks a start reference image as the current one.
// Selecting an id not in the list leaves the shot unchanged.
func (s *Store) SelectRefImage(sectionID, shotID, imageID string) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		if !hasRef(sh.RefImages, imageID) {
			return sh
		}
		nsh := *sh
		nsh.SelectedRefImageID = imageID
		return &nsh
	})
}

// AddEndRefImage appends an end-frame reference image to a shot.
func (s *Store) AddEndRefImage(sectionID, shotID string, img RefImage) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		nsh.EndRefImages, nsh.SelectedEndRefImageID = addRef(sh.EndRefImages, sh.SelectedEndRefImageID, img)
		return &nsh
	})
}

// RemoveEndRefImage drops an end-frame reference image from a shot.
func (s *Store) RemoveEndRefImage(sectionID, shotID, imageID string) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		nsh.EndRefImages, nsh.SelectedEndRefImageID = removeRef(sh.EndRefImages, sh.SelectedEndRefImageID, imageID)
		return &nsh
	})
}

// SelectEndRefImage marks an end-frame reference image as current.
func (s *Store) SelectEndRefImage(sectionID, shotID, imageID string) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		if !hasRef(sh.EndRefImages, imageID) {
			return sh
		}
		nsh := *sh
		nsh.SelectedEndRefImageID = imageID
		return &nsh
	})
}

// AddShotVideo appends an imported video to a shot and selects it.
func (s *Store) AddShotVideo(sectionID, shotID, path string, importedAt int64) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		nsh.VideoFiles, nsh.SelectedVideoIdx = appendVideo(sh.VideoFiles, path, importedAt)
		return &nsh
	})
}

// RemoveShotVideo removes the video at index, clamping the selection.
func (s *Store) RemoveShotVideo(sectionID, shotID string, index int) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		nsh.VideoFiles, nsh.SelectedVideoIdx = removeVideo(sh.VideoFiles, sh.SelectedVideoIdx, index)
		return &nsh
	})
}

// SelectShotVideo points the shot at the given video version. An index
// outside the list leaves the shot unchanged.
func (s *Store) SelectShotVideo(sectionID, shotID string, index int) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		if index < 0 || index >= len(sh.VideoFiles) {
			return sh
		}
		nsh := *sh
		nsh.SelectedVideoIdx = intPtr(index)
		return &nsh
	})
}

// AddTake appends a new take to a multi shot, continuing from the last
// take's end time (or the shot's start).
func (s *Store) AddTake(sectionID, shotID string) *Take {
	tk := &Take{
		ID:           NewID(),
		RefImages:    []RefImage{},
		EndRefImages: []RefImage{},
	}
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		nsh := *sh
		if n := len(sh.Takes); n > 0 {
			last := sh.Takes[n-1]
			tk.StartTime = last.EndTime
			tk.EndTime = last.EndTime + 1
		} else {
			tk.StartTime = sh.StartTime
			tk.EndTime = sh.StartTime + 1
		}
		tk.Label = takeLabel(len(sh.Takes) + 1)
		takes := make([]*Take, 0, len(sh.Takes)+1)
		takes = append(takes, sh.Takes...)
		takes = append(takes, tk)
		nsh.Takes = takes
		return &nsh
	})
	return tk
}

// RemoveTake deletes a take from a shot.
func (s *Store) RemoveTake(sectionID, shotID, takeID string) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		out := make([]*Take, 0, len(sh.Takes))
		found := false
		for _, tk := range sh.Takes {
			if tk.ID == takeID {
				found = true
				continue
			}
			out = append(out, tk)
		}
		if !found {
			return sh
		}
		nsh := *sh
		nsh.Takes = out
		return &nsh
	})
}

// UpdateTake applies fn to a shallow clone of the take.
func (s *Store) UpdateTake(sectionID, shotID, takeID string, fn func(*Take)) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		ntk := *tk
		fn(&ntk)
		return &ntk
	})
}

// AddTakeRefImage appends a start reference image to a take.
func (s *Store) AddTakeRefImage(sectionID, shotID, takeID string, img RefImage) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		ntk := *tk
		ntk.RefImages, ntk.SelectedRefImageID = addRef(tk.RefImages, tk.SelectedRefImageID, img)
		return &ntk
	})
}

// RemoveTakeRefImage drops a start reference image from a take.
func (s *Store) RemoveTakeRefImage(sectionID, shotID, takeID, imageID string) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		ntk := *tk
		ntk.RefImages, ntk.SelectedRefImageID = removeRef(tk.RefImages, tk.SelectedRefImageID, imageID)
		return &ntk
	})
}

// SelectTakeRefImage marks a take's start reference image as current.
func (s *Store) SelectTakeRefImage(sectionID, shotID, takeID, imageID string) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		if !hasRef(tk.RefImages, imageID) {
			return tk
		}
		ntk := *tk
		ntk.SelectedRefImageID = imageID
		return &ntk
	})
}

// AddTakeEndRefImage appends an end-frame reference image to a take.
func (s *Store) AddTakeEndRefImage(sectionID, shotID, takeID string, img RefImage) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		ntk := *tk
		ntk.EndRefImages, ntk.SelectedEndRefImageID = addRef(tk.EndRefImages, tk.SelectedEndRefImageID, img)
		return &ntk
	})
}

// RemoveTakeEndRefImage drops an end-frame reference image from a take.
func (s *Store) RemoveTakeEndRefImage(sectionID, shotID, takeID, imageID string) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		ntk := *tk
		ntk.EndRefImages, ntk.SelectedEndRefImageID = removeRef(tk.EndRefImages, tk.SelectedEndRefImageID, imageID)
		return &ntk
	})
}

// SelectTakeEndRefImage marks a take's end-frame reference image as current.
func (s *Store) SelectTakeEndRefImage(sectionID, shotID, takeID, imageID string) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		if !hasRef(tk.EndRefImages, imageID) {
			return tk
		}
		ntk := *tk
		ntk.SelectedEndRefImageID = imageID
		return &ntk
	})
}

// AddTakeVideo appends an imported video to a take and selects it.
func (s *Store) AddTakeVideo(sectionID, shotID, takeID, path string, importedAt int64) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		ntk := *tk
		ntk.VideoFiles, ntk.SelectedVideoIdx = appendVideo(tk.VideoFiles, path, importedAt)
		return &ntk
	})
}

// RemoveTakeVideo removes the video at index from a take.
func (s *Store) RemoveTakeVideo(sectionID, shotID, takeID string, index int) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		ntk := *tk
		ntk.VideoFiles, ntk.SelectedVideoIdx = removeVideo(tk.VideoFiles, tk.SelectedVideoIdx, index)
		return &ntk
	})
}

// SelectTakeVideo points the take at the given video version.
func (s *Store) SelectTakeVideo(sectionID, shotID, takeID string, index int) {
	s.updateTake(sectionID, shotID, takeID, func(tk *Take) *Take {
		if index < 0 || index >= len(tk.VideoFiles) {
			return tk
		}
		ntk := *tk
		ntk.SelectedVideoIdx = intPtr(index)
		return &ntk
	})
}

// ClearAllVideos detaches every imported video from every shot and take.
func (s *Store) ClearAllVideos() {
	s.mutate(func(p *Project) *Project {
		np := *p
		sections := make([]*Section, len(p.Sections))
		for i, sec := range p.Sections {
			nsec := *sec
			shots := make([]*Shot, len(sec.Shots))
			for j, sh := range sec.Shots {
				nsh := *sh
				nsh.VideoFiles = nil
				nsh.SelectedVideoIdx = nil
				if len(sh.Takes) > 0 {
					takes := make([]*Take, len(sh.Takes))
					for k, tk := range sh.Takes {
						ntk := *tk
						ntk.VideoFiles = nil
						ntk.SelectedVideoIdx = nil
						takes[k] = &ntk
					}
					nsh.Takes = takes
				}
				shots[j] = &nsh
			}
			nsec.Shots = shots
			sections[i] = &nsec
		}
		np.Sections = sections
		return &np
	})
}

// Assignment binds a matched video path to a shot or take.
type Assignment struct {
	SectionID string
	ShotID    string
	TakeID    string
	Path      string
}

// ApplyAssignments appends all matched videos in a single atomic
// project replacement, so concurrent readers see either none or all of
// the import. Returns the number of assignments applied.
func (s *Store) ApplyAssignments(assignments []Assignment, importedAt int64) int {
	applied := 0
	shotPaths := make(map[string]string, len(assignments))
	takePaths := make(map[string]string, len(assignments))
	for _, a := range assignments {
		if a.TakeID != "" {
			takePaths[a.SectionID+":"+a.ShotID+":"+a.TakeID] = a.Path
		} else {
			shotPaths[a.SectionID+":"+a.ShotID] = a.Path
		}
	}

	s.mutate(func(p *Project) *Project {
		np := *p
		sections := make([]*Section, len(p.Sections))
		for i, sec := range p.Sections {
			nsec := *sec
			shots := make([]*Shot, len(sec.Shots))
			for j, sh := range sec.Shots {
				nsh := *sh
				if path, ok := shotPaths[sec.ID+":"+sh.ID]; ok {
					nsh.VideoFiles, nsh.SelectedVideoIdx = appendVideo(sh.VideoFiles, path, importedAt)
					applied++
				}
				if len(sh.Takes) > 0 {
					takes := make([]*Take, len(sh.Takes))
					for k, tk := range sh.Takes {
						if path, ok := takePaths[sec.ID+":"+sh.ID+":"+tk.ID]; ok {
							ntk := *tk
							ntk.VideoFiles, ntk.SelectedVideoIdx = appendVideo(tk.VideoFiles, path, importedAt)
							takes[k] = &ntk
							applied++
							continue
						}
						takes[k] = tk
					}
					nsh.Takes = takes
				}
				shots[j] = &nsh
			}
			nsec.Shots = shots
			sections[i] = &nsec
		}
		np.Sections = sections
		return &np
	})
	return applied
}

// mutate swaps the project for fn's result under the write lock. fn
// returning its argument unchanged means no-op.
func (s *Store) mutate(fn func(*Project) *Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return
	}
	s.project = fn(s.project)
}

func (s *Store) updateSection(sectionID string, fn func(*Section) *Section) {
	s.mutate(func(p *Project) *Project {
		idx := -1
		for i, sec := range p.Sections {
			if sec.ID == sectionID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return p
		}
		replaced := fn(p.Sections[idx])
		if replaced == p.Sections[idx] {
			return p
		}
		np := *p
		sections := make([]*Section, len(p.Sections))
		copy(sections, p.Sections)
		sections[idx] = replaced
		np.Sections = sections
		return &np
	})
}

func (s *Store) updateShot(sectionID, shotID string, fn func(*Shot) *Shot) {
	s.updateSection(sectionID, func(sec *Section) *Section {
		idx := -1
		for i, sh := range sec.Shots {
			if sh.ID == shotID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return sec
		}
		replaced := fn(sec.Shots[idx])
		if replaced == sec.Shots[idx] {
			return sec
		}
		nsec := *sec
		shots := make([]*Shot, len(sec.Shots))
		copy(shots, sec.Shots)
		shots[idx] = replaced
		nsec.Shots = shots
		return &nsec
	})
}

func (s *Store) updateTake(sectionID, shotID, takeID string, fn func(*Take) *Take) {
	s.updateShot(sectionID, shotID, func(sh *Shot) *Shot {
		idx := -1
		for i, tk := range sh.Takes {
			if tk.ID == takeID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return sh
		}
		replaced := fn(sh.Takes[idx])
		if replaced == sh.Takes[idx] {
			return sh
		}
		nsh := *sh
		takes := make([]*Take, len(sh.Takes))
		copy(takes, sh.Takes)
		takes[idx] = replaced
		nsh.Takes = takes
		return &nsh
	})
}

func insertSection(sections []*Section, sec *Section, afterID string) []*Section {
	out := make([]*Section, 0, len(sections)+1)
	inserted := false
	for _, existing := range sections {
		out = append(out, existing)
		if afterID != "" && existing.ID == afterID {
			out = append(out, sec)
			inserted = true
		}
	}
	if !inserted {
		out = append(out, sec)
	}
	return out
}

func hasRef(list []RefImage, imageID string) bool {
	for _, img := range list {
		if img.ID == imageID {
			return true
		}
	}
	return false
}

func addRef(list []RefImage, selected string, img RefImage) ([]RefImage, string) {
	out := make([]RefImage, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, img)
	if selected == "" {
		selected = img.ID
	}
	return out, selected
}

func removeRef(list []RefImage, selected, imageID string) ([]RefImage, string) {
	out := make([]RefImage, 0, len(list))
	for _, img := range list {
		if img.ID != imageID {
			out = append(out, img)
		}
	}
	if selected == imageID {
		if len(out) > 0 {
			selected = out[0].ID
		} else {
			selected = ""
		}
	}
	return out, selected
}

func appendVideo(list []VideoFile, path string, importedAt int64) ([]VideoFile, *int) {
	out := make([]VideoFile, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, VideoFile{Path: path, ImportedAt: importedAt})
	return out, intPtr(len(out) - 1)
}

func removeVideo(list []VideoFile, selected *int, index int) ([]VideoFile, *int) {
	if index < 0 || index >= len(list) {
		return list, selected
	}
	out := make([]VideoFile, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	if len(out) == 0 {
		return out, nil
	}
	prev := 0
	if selected != nil {
		prev = *selected
	}
	if prev > len(out)-1 {
		prev = len(out) - 1
	}
	return out, intPtr(prev)
}

func deepCopyShot(sh *Shot) *Shot {
	nsh := *sh
	nsh.RefImages = append([]RefImage(nil), sh.RefImages...)
	nsh.EndRefImages = append([]RefImage(nil), sh.EndRefImages...)
	nsh.VideoFiles = append([]VideoFile(nil), sh.VideoFiles...)
	if sh.Params != nil {
		nsh.Params = sh.Params.Clone()
	}
	if sh.Takes != nil {
		takes := make([]*Take, len(sh.Takes))
		for i, tk := range sh.Takes {
			ntk := *tk
			ntk.ID = NewID()
			ntk.RefImages = append([]RefImage(nil), tk.RefImages...)
			ntk.EndRefImages = append([]RefImage(nil), tk.EndRefImages...)
			ntk.VideoFiles = append([]VideoFile(nil), tk.VideoFiles...)
			takes[i] = &ntk
		}
		nsh.Takes = takes
	}
	return &nsh
}

func takeLabel(n int) string {
	return "Take " + strconv.Itoa(n)
}

func intPtr(v int) *int {
	return &v
}
