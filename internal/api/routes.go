package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shotplan/shotplan/internal/config"
	"github.com/shotplan/shotplan/internal/project"
	"github.com/shotplan/shotplan/internal/shotlist"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", listProjectsHandler(cfg))
			r.Post("/", saveProjectHandler(cfg))
			r.Get("/{id}", getProjectHandler(cfg))
			r.Post("/{id}/open", openProjectHandler(cfg))
			r.Delete("/{id}", deleteProjectHandler(cfg))
		})

		r.Post("/import/markdown", importMarkdownHandler(cfg))

		r.Route("/images", func(r chi.Router) {
			r.Post("/upload", uploadImageHandler(cfg))
			r.Get("/browse", browseImagesHandler(cfg))
			r.Post("/import-external", importExternalImageHandler(cfg))
			r.Post("/generate-thumbnails", generateThumbnailsHandler(cfg))
			r.Get("/thumb/{filename}", serveThumbHandler(cfg))
			r.Get("/{filename}", serveImageHandler(cfg))
		})

		r.Route("/audio", func(r chi.Router) {
			r.Post("/upload", uploadAudioHandler(cfg))
			r.Get("/{filename}", serveAudioHandler(cfg))
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/roots", videoRootsHandler(cfg))
			r.Get("/browse", browseVideosHandler(cfg))
			r.Get("/external", serveExternalVideoHandler(cfg))
			r.Post("/preview", previewVideosHandler(cfg))
			r.Post("/import", importVideosHandler(cfg))
			r.Post("/clear", clearVideosHandler(cfg))
			r.Get("/incoming", incomingVideosHandler(cfg))
		})

		r.Post("/export/queue", exportQueueHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: uptime,
		})
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := cfg.Repository.List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}
		if summaries == nil {
			summaries = []project.Summary{}
		}
		WriteJSON(w, http.StatusOK, ProjectListResponse{Projects: summaries})
	}
}

// saveProjectHandler persists a whole project document. When the saved
// project is the one currently open, the in-memory copy is replaced too.
func saveProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p project.Project
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if p.ID == "" {
			WriteError(w, http.StatusBadRequest, "project must have an id", "BAD_REQUEST")
			return
		}

		migrated := project.Migrate(&p)
		if err := cfg.Repository.Save(r.Context(), migrated); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to save project", "INTERNAL_ERROR")
			return
		}

		if cur := cfg.Store.Current(); cur != nil && cur.ID == migrated.ID {
			cfg.Store.Set(migrated)
		}

		WriteJSON(w, http.StatusOK, OKResponse{OK: true, ID: migrated.ID})
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cfg.Repository.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load project", "INTERNAL_ERROR")
			return
		}
		if p == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, p)
	}
}

// openProjectHandler loads a persisted project into the in-memory
// store, making it the one project all other endpoints operate on.
func openProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, err := cfg.Repository.Get(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load project", "INTERNAL_ERROR")
			return
		}
		if p == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}

		cfg.Store.Set(p)
		if err := cfg.Repository.SetLastProjectID(r.Context(), id); err != nil {
			cfg.Logger.Warn("failed to record last project", "error", err)
		}
		WriteJSON(w, http.StatusOK, p)
	}
}

func deleteProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := cfg.Repository.Delete(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to delete project", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, OKResponse{OK: true})
	}
}

// importMarkdownHandler accepts up to ten markdown files in one
// multipart request and sorts out which is the shotlist and which the
// character document by filename. A single unrecognized file is
// treated as the shotlist.
func importMarkdownHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart request", "BAD_REQUEST")
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			WriteError(w, http.StatusBadRequest, "no files provided", "BAD_REQUEST")
			return
		}
		if len(files) > 10 {
			files = files[:10]
		}

		var shotlistContent, characterContent, firstContent string
		for i, fh := range files {
			f, err := fh.Open()
			if err != nil {
				WriteError(w, http.StatusBadRequest, "failed to read upload", "BAD_REQUEST")
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				WriteError(w, http.StatusBadRequest, "failed to read upload", "BAD_REQUEST")
				return
			}
			content := string(data)
			if i == 0 {
				firstContent = content
			}

			name := strings.ToLower(fh.Filename)
			switch {
			case strings.Contains(name, "shotlist"),
				strings.Contains(name, "shot_list"),
				strings.Contains(name, "shot-list"):
				shotlistContent = content
			case strings.Contains(name, "character"), strings.Contains(name, "establishment"):
				characterContent = content
			default:
				if len(files) == 1 {
					shotlistContent = content
				}
			}
		}
		if shotlistContent == "" && characterContent == "" {
			shotlistContent = firstContent
		}

		p := shotlist.ParseAll(shotlistContent, characterContent)
		p.DefaultParams = project.DefaultParams()

		if err := cfg.Repository.Save(r.Context(), p); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to save imported project", "INTERNAL_ERROR")
			return
		}
		cfg.Store.Set(p)
		if err := cfg.Repository.SetLastProjectID(r.Context(), p.ID); err != nil {
			cfg.Logger.Warn("failed to record last project", "error", err)
		}

		WriteJSON(w, http.StatusOK, p)
	}
}
