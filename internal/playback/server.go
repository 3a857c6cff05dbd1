package playback

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/shotplan/shotplan/internal/logging"
	"github.com/shotplan/shotplan/internal/media"
)

var videoMIME = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// Server streams media files with Range support.
type Server struct {
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	s := &Server{}
	if logger != nil {
		s.logger = logging.WithComponent(logger, "playback")
	}
	return s
}

// ServeVideo serves a video file at an arbitrary absolute path, as used
// by the preview player for files still sitting in their render folder.
// Non-video paths are rejected.
func (s *Server) ServeVideo(w http.ResponseWriter, r *http.Request, path string) error {
	if !media.IsVideo(path) {
		http.Error(w, "not a video file", http.StatusBadRequest)
		return nil
	}
	return s.serve(w, r, path, videoMIME[strings.ToLower(filepath.Ext(path))])
}

// ServeFile serves a stored media file, with the content type derived
// from its extension.
func (s *Server) ServeFile(w http.ResponseWriter, r *http.Request, path string) error {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.serve(w, r, path, contentType)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, path, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "file not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	size := stat.Size()

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)

	br, err := ParseRange(r.Header.Get("Range"), size)
	if err == ErrUnsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	if err == ErrInvalidRange {
		// Ignore malformed ranges and serve the whole file.
		br = nil
	} else if err != nil {
		return err
	}

	if br == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, file); err != nil && s.logger != nil {
			s.logger.Debug("playback copy aborted", "path", logging.SanitizePath(path), "error", err)
		}
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", br.Length()))
	w.Header().Set("Content-Range", br.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(br.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	if _, err := io.CopyN(w, file, br.Length()); err != nil && s.logger != nil {
		s.logger.Debug("playback copy aborted", "path", logging.SanitizePath(path), "error", err)
	}
	return nil
}
