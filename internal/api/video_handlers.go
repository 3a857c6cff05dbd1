package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shotplan/shotplan/internal/match"
	"github.com/shotplan/shotplan/internal/media"
	"github.com/shotplan/shotplan/internal/watcher"
)

func videoRootsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := os.UserHomeDir()
		if err != nil {
			home = ""
		}
		WriteJSON(w, http.StatusOK, RootsResponse{Roots: media.Roots(), Home: home})
	}
}

func browseVideosHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir := r.URL.Query().Get("dir")
		if dir == "" {
			WriteError(w, http.StatusBadRequest, "dir query parameter required", "BAD_REQUEST")
			return
		}
		res, err := media.BrowseVideos(dir)
		if err != nil {
			if os.IsNotExist(err) {
				WriteError(w, http.StatusNotFound, "directory not found", "NOT_FOUND")
				return
			}
			WriteError(w, http.StatusInternalServerError, "failed to browse directory", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func serveExternalVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			WriteError(w, http.StatusBadRequest, "path query parameter required", "BAD_REQUEST")
			return
		}
		if err := cfg.Playback.ServeVideo(w, r, path); err != nil {
			cfg.Logger.Error("video serve error", "error", err)
		}
	}
}

// matchDir runs the three-phase matcher between the current project's
// expected stems and the video files found in dir.
func matchDir(cfg ServerConfig, dir string) ([]match.Expectation, match.Result, error) {
	res, err := media.BrowseVideos(dir)
	if err != nil {
		return nil, match.Result{}, err
	}
	plan := match.Plan(cfg.Store.Current())
	return plan, match.Match(match.Stems(plan), res.Files), nil
}

func matchEntries(plan []match.Expectation, matches map[string][]string) ([]MatchEntry, int) {
	entries := make([]MatchEntry, len(plan))
	matched := 0
	for i, e := range plan {
		entries[i] = MatchEntry{
			Stem:      e.Stem,
			SectionID: e.SectionID,
			ShotID:    e.ShotID,
			TakeID:    e.TakeID,
		}
		if paths := matches[strings.ToLower(e.Stem)]; len(paths) > 0 {
			entries[i].Path = paths[0]
			matched++
		}
	}
	return entries, matched
}

func decodeDirRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req MatchDirRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Dir == "" {
		WriteError(w, http.StatusBadRequest, "dir is required", "BAD_REQUEST")
		return "", false
	}
	return req.Dir, true
}

func requireProject(cfg ServerConfig, w http.ResponseWriter) bool {
	if cfg.Store.Current() == nil {
		WriteError(w, http.StatusConflict, "no project open", "NO_PROJECT")
		return false
	}
	return true
}

func previewVideosHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir, ok := decodeDirRequest(w, r)
		if !ok || !requireProject(cfg, w) {
			return
		}
		plan, res, err := matchDir(cfg, dir)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		entries, matched := matchEntries(plan, res.Matches)
		WriteJSON(w, http.StatusOK, PreviewResponse{
			Entries:   entries,
			Matched:   matched,
			Unmatched: unmatchedOrEmpty(res),
		})
	}
}

func importVideosHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir, ok := decodeDirRequest(w, r)
		if !ok || !requireProject(cfg, w) {
			return
		}
		plan, res, err := matchDir(cfg, dir)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		assignments := match.Assignments(plan, res.Matches)
		imported := cfg.Store.ApplyAssignments(assignments, time.Now().UnixMilli())
		if err := saveCurrent(cfg, r); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to save project", "INTERNAL_ERROR")
			return
		}
		if cfg.Watcher != nil {
			cfg.Watcher.Clear()
		}

		entries, _ := matchEntries(plan, res.Matches)
		WriteJSON(w, http.StatusOK, ImportVideosResponse{
			Imported:  imported,
			Entries:   entries,
			Unmatched: unmatchedOrEmpty(res),
		})
	}
}

func clearVideosHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireProject(cfg, w) {
			return
		}
		cfg.Store.ClearAllVideos()
		if err := saveCurrent(cfg, r); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to save project", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, OKResponse{OK: true})
	}
}

func incomingVideosHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arrivals := []watcher.Arrival{}
		if cfg.Watcher != nil {
			arrivals = cfg.Watcher.Incoming()
		}
		WriteJSON(w, http.StatusOK, IncomingResponse{Arrivals: arrivals})
	}
}

func saveCurrent(cfg ServerConfig, r *http.Request) error {
	p := cfg.Store.Current()
	if p == nil {
		return nil
	}
	return cfg.Repository.Save(r.Context(), p)
}

func unmatchedOrEmpty(res match.Result) []string {
	if res.Unmatched == nil {
		return []string{}
	}
	return res.Unmatched
}
