package media

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shotplan/shotplan/internal/match"
)

// DirEntry is one navigable subdirectory in a browse listing.
type DirEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// BrowseResult is one directory listing of candidate video files, in
// the exact shape the matcher consumes. ParentDir is empty at the
// filesystem root.
type BrowseResult struct {
	Files      []match.File `json:"files"`
	Dirs       []DirEntry   `json:"dirs"`
	CurrentDir string       `json:"currentDir"`
	ParentDir  string       `json:"parentDir"`
}

// BrowseVideos lists the video files and subdirectories of dir.
// Hidden entries are skipped; files and dirs come back sorted by name.
func BrowseVideos(dir string) (*BrowseResult, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	res := &BrowseResult{
		Files:      []match.File{},
		Dirs:       []DirEntry{},
		CurrentDir: abs,
	}
	if parent := filepath.Dir(abs); parent != abs {
		res.ParentDir = parent
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			res.Dirs = append(res.Dirs, DirEntry{Name: name, Path: filepath.Join(abs, name)})
			continue
		}
		if !IsVideo(name) {
			continue
		}
		res.Files = append(res.Files, match.File{
			Filename: name,
			Path:     filepath.Join(abs, name),
			Stem:     strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	sort.Slice(res.Dirs, func(i, j int) bool { return res.Dirs[i].Name < res.Dirs[j].Name })
	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Filename < res.Files[j].Filename })
	return res, nil
}

// IsVideo reports whether a filename carries a supported video
// extension.
func IsVideo(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".webm":
		return true
	}
	return false
}

// Roots returns the starting points offered to the directory browser:
// the home directory plus its common download locations, when present.
func Roots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return []string{string(filepath.Separator)}
	}
	roots := []string{home}
	for _, sub := range []string{"Downloads", "Desktop", "Movies", "Videos"} {
		p := filepath.Join(home, sub)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			roots = append(roots, p)
		}
	}
	return roots
}
