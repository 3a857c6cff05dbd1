package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AudioStore holds uploaded audio tracks. Uploads keep their original
// extension but get a generated basename.
type AudioStore struct {
	dir string
}

func NewAudioStore(dir string) (*AudioStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}
	return &AudioStore{dir: dir}, nil
}

// StoredAudio describes one stored audio track.
type StoredAudio struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

func (s *AudioStore) Save(r io.Reader, originalName string) (*StoredAudio, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".mp3"
	}
	filename := uuid.NewString() + ext
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &StoredAudio{Filename: filename, Path: path}, nil
}

// Dir returns the audio directory path.
func (s *AudioStore) Dir() string {
	return s.dir
}

// AudioPath resolves a stored filename to its absolute path.
func (s *AudioStore) AudioPath(filename string) (string, error) {
	return resolveWithin(s.dir, filename)
}
