// Package project defines the planning data model (project, sections,
// shots, takes) and the in-memory store that mutates it.
package project

import "github.com/google/uuid"

const (
	// TypeSolo marks a shot generated as a single clip.
	TypeSolo = "solo"
	// TypeMulti marks a rapid-cut shot that decomposes into takes.
	TypeMulti = "multi"
)

// Project is the root aggregate. Exactly one project is open in memory
// at a time; persistence reads and writes it as a whole document.
type Project struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	BPM           int        `json:"bpm"`
	Sections      []*Section `json:"sections"`
	DefaultParams Params     `json:"defaultParams"`
	MasterAudio   string     `json:"masterAudio,omitempty"`
}

// Section groups shots over a time range of the master audio track.
// Order within Project.Sections is playback order.
type Section struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	Description string  `json:"description"`
	Shots       []*Shot `json:"shots"`
}

// Shot is one planned clip. Multi shots carry takes; solo shots do not.
type Shot struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Type                  string      `json:"type"`
	StartTime             float64     `json:"startTime"`
	EndTime               float64     `json:"endTime"`
	Lyric                 string      `json:"lyric"`
	Concept               string      `json:"concept"`
	Prompt                string      `json:"prompt"`
	RefImagePrompt        string      `json:"refImagePrompt"`
	RefImages             []RefImage  `json:"refImages"`
	SelectedRefImageID    string      `json:"selectedRefImageId,omitempty"`
	EndRefImages          []RefImage  `json:"endRefImages"`
	SelectedEndRefImageID string      `json:"selectedEndRefImageId,omitempty"`
	AudioFile             string      `json:"audioFile,omitempty"`
	VideoFiles            []VideoFile `json:"videoFiles,omitempty"`
	SelectedVideoIdx      *int        `json:"selectedVideoIdx,omitempty"`
	Takes                 []*Take     `json:"takes,omitempty"`
	Params                Params      `json:"params,omitempty"`
	Approved              bool        `json:"approved,omitempty"`

	// Cuts is the pre-rename spelling of Takes. It is only populated when
	// decoding an old document and is folded into Takes by Migrate.
	Cuts []*Take `json:"cuts,omitempty"`
}

// Take is one sub-cut of a multi shot with its own reference media.
type Take struct {
	ID                    string      `json:"id"`
	Label                 string      `json:"label"`
	StartTime             float64     `json:"startTime"`
	EndTime               float64     `json:"endTime"`
	Concept               string      `json:"concept"`
	RefImagePrompt        string      `json:"refImagePrompt"`
	RefImages             []RefImage  `json:"refImages"`
	SelectedRefImageID    string      `json:"selectedRefImageId,omitempty"`
	EndRefImages          []RefImage  `json:"endRefImages"`
	SelectedEndRefImageID string      `json:"selectedEndRefImageId,omitempty"`
	VideoFiles            []VideoFile `json:"videoFiles,omitempty"`
	SelectedVideoIdx      *int        `json:"selectedVideoIdx,omitempty"`
	Approved              bool        `json:"approved,omitempty"`
}

// RefImage identity is the generated id, not the filename; the same file
// may appear with different ids in different slots.
type RefImage struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnailPath"`
}

// VideoFile is one imported generation result. The list is append-only
// on import; SelectedVideoIdx points at the current version.
type VideoFile struct {
	Path       string `json:"path"`
	ImportedAt int64  `json:"importedAt"`
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

// New creates an empty project with the given name.
func New(name string) *Project {
	return &Project{
		ID:            NewID(),
		Name:          name,
		BPM:           120,
		Sections:      []*Section{},
		DefaultParams: Params{},
	}
}

// FindSection returns the section with the given id, or nil.
func (p *Project) FindSection(sectionID string) *Section {
	for _, s := range p.Sections {
		if s.ID == sectionID {
			return s
		}
	}
	return nil
}

// FindShot returns the shot with the given id within a section, or nil.
func (p *Project) FindShot(sectionID, shotID string) *Shot {
	sec := p.FindSection(sectionID)
	if sec == nil {
		return nil
	}
	for _, sh := range sec.Shots {
		if sh.ID == shotID {
			return sh
		}
	}
	return nil
}

// IsMulti reports whether the shot decomposes into takes.
func (sh *Shot) IsMulti() bool {
	return sh.Type == TypeMulti && len(sh.Takes) > 0
}
