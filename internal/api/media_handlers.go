package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

func uploadImageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart request", "BAD_REQUEST")
			return
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "image file is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		stored, err := cfg.Images.Save(file)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, stored)
	}
}

func browseImagesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images, err := cfg.Images.List()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list images", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, images)
	}
}

func importExternalImageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportExternalImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}
		stored, err := cfg.Images.ImportExternal(req.Path)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, stored)
	}
}

func generateThumbnailsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := cfg.Images.GenerateMissingThumbnails()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "thumbnail generation failed", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, GenerateThumbnailsResponse{Generated: n})
	}
}

func serveImageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := cfg.Images.ImagePath(chi.URLParam(r, "filename"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid filename", "BAD_REQUEST")
			return
		}
		if err := cfg.Playback.ServeFile(w, r, path); err != nil {
			cfg.Logger.Error("image serve error", "error", err)
		}
	}
}

// serveThumbHandler serves the thumbnail for a library image, falling
// back to the full image when no thumbnail exists.
func serveThumbHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		thumb, err := cfg.Images.ThumbPath(filename)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid filename", "BAD_REQUEST")
			return
		}
		if _, statErr := os.Stat(thumb); statErr != nil {
			full, err := cfg.Images.ImagePath(filename)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "invalid filename", "BAD_REQUEST")
				return
			}
			thumb = full
		}
		if err := cfg.Playback.ServeFile(w, r, thumb); err != nil {
			cfg.Logger.Error("thumbnail serve error", "error", err)
		}
	}
}

func uploadAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(128 << 20); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart request", "BAD_REQUEST")
			return
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "audio file is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		stored, err := cfg.Audio.Save(file, header.Filename)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, stored)
	}
}

func serveAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := cfg.Audio.AudioPath(chi.URLParam(r, "filename"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid filename", "BAD_REQUEST")
			return
		}
		if err := cfg.Playback.ServeFile(w, r, path); err != nil {
			cfg.Logger.Error("audio serve error", "error", err)
		}
	}
}
