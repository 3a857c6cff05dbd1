package api

import (
	"github.com/shotplan/shotplan/internal/project"
	"github.com/shotplan/shotplan/internal/watcher"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type OKResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

type ProjectListResponse struct {
	Projects []project.Summary `json:"projects"`
}

type ImportExternalImageRequest struct {
	Path string `json:"path"`
}

type GenerateThumbnailsResponse struct {
	Generated int `json:"generated"`
}

type RootsResponse struct {
	Roots []string `json:"roots"`
	Home  string   `json:"home"`
}

type MatchDirRequest struct {
	Dir string `json:"dir"`
}

// MatchEntry is one row of the preview manifest: an expected stem and
// the file path it resolved to, if any.
type MatchEntry struct {
	Stem      string `json:"stem"`
	SectionID string `json:"sectionId"`
	ShotID    string `json:"shotId"`
	TakeID    string `json:"takeId,omitempty"`
	Path      string `json:"path,omitempty"`
}

type PreviewResponse struct {
	Entries   []MatchEntry `json:"entries"`
	Matched   int          `json:"matched"`
	Unmatched []string     `json:"unmatched"`
}

type ImportVideosResponse struct {
	Imported  int          `json:"imported"`
	Entries   []MatchEntry `json:"entries"`
	Unmatched []string     `json:"unmatched"`
}

type IncomingResponse struct {
	Arrivals []watcher.Arrival `json:"arrivals"`
}

// ExportShotRequest mirrors the flattened shot list the UI assembles
// for export; params here are the shot-level overrides.
type ExportShotRequest struct {
	Prompt          string         `json:"prompt"`
	RefImagePath    string         `json:"refImagePath"`
	EndRefImagePath string         `json:"endRefImagePath"`
	AudioPath       string         `json:"audioPath"`
	Params          project.Params `json:"params"`
}

type ExportQueueRequest struct {
	Shots         []ExportShotRequest `json:"shots"`
	DefaultParams project.Params      `json:"defaultParams"`
}
