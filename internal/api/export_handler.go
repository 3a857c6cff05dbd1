package api

import (
	"encoding/json"
	"net/http"

	"github.com/shotplan/shotplan/internal/export"
)

// exportQueueHandler streams the generation queue ZIP. The request
// carries the flattened shot list the UI assembled; defaults merge
// under each shot's own params before the ZIP builder resolves media.
func exportQueueHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportQueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if len(req.Shots) == 0 {
			WriteError(w, http.StatusBadRequest, "no shots provided", "BAD_REQUEST")
			return
		}

		shots := make([]export.Shot, len(req.Shots))
		for i, s := range req.Shots {
			params := req.DefaultParams.Clone().Merge(s.Params)
			shots[i] = export.Shot{
				TaskID:          i + 1,
				Prompt:          s.Prompt,
				RefImagePath:    s.RefImagePath,
				EndRefImagePath: s.EndRefImagePath,
				AudioPath:       s.AudioPath,
				Params:          params,
			}
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", "attachment; filename=queue.zip")

		if err := export.BuildQueueZip(w, shots, cfg.Images.Dir(), cfg.Audio.Dir()); err != nil {
			// Headers are gone by now; all we can do is log.
			cfg.Logger.Error("export failed mid-stream", "error", err)
		}
	}
}
