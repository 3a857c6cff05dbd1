// Package media manages the on-disk storage areas for reference
// images, audio tracks, and generated video browsing. The planning
// model only ever holds filenames and paths; all file bytes stay here.
package media

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	thumbWidth   = 384
	thumbQuality = 80
)

// ImageStore holds uploaded reference images and their thumbnails.
// Every stored image is re-encoded to PNG under a fresh generated name,
// so originals with exotic encodings or colliding filenames never leak
// into the library.
type ImageStore struct {
	imagesDir string
	thumbsDir string
	logger    *slog.Logger
}

func NewImageStore(imagesDir, thumbsDir string, logger *slog.Logger) (*ImageStore, error) {
	for _, dir := range []string{imagesDir, thumbsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create image directory: %w", err)
		}
	}
	return &ImageStore{imagesDir: imagesDir, thumbsDir: thumbsDir, logger: logger}, nil
}

// StoredImage describes one image in the library.
type StoredImage struct {
	Filename      string `json:"filename"`
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnailPath"`
}

// Save decodes the uploaded image, re-encodes it as PNG under a
// generated filename, and writes a thumbnail alongside.
func (s *ImageStore) Save(r io.Reader) (*StoredImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	filename := uuid.NewString() + ".png"
	path := filepath.Join(s.imagesDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	thumbPath, err := s.writeThumbnail(img, filename)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("thumbnail generation failed", "filename", filename, "error", err)
		}
		thumbPath = ""
	}

	return &StoredImage{Filename: filename, Path: path, ThumbnailPath: thumbPath}, nil
}

// ImportExternal copies an image from an arbitrary path into the
// library, re-encoding it like an upload.
func (s *ImageStore) ImportExternal(path string) (*StoredImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open external image: %w", err)
	}
	defer f.Close()
	return s.Save(f)
}

// List returns the library contents, with thumbnail paths where a
// thumbnail exists.
func (s *ImageStore) List() ([]StoredImage, error) {
	entries, err := os.ReadDir(s.imagesDir)
	if err != nil {
		return nil, err
	}
	out := make([]StoredImage, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		img := StoredImage{
			Filename: e.Name(),
			Path:     filepath.Join(s.imagesDir, e.Name()),
		}
		thumb := s.thumbPath(e.Name())
		if _, err := os.Stat(thumb); err == nil {
			img.ThumbnailPath = thumb
		}
		out = append(out, img)
	}
	return out, nil
}

// GenerateMissingThumbnails backfills thumbnails for library images
// that lack one. Returns the number generated; individual decode
// failures are logged and skipped.
func (s *ImageStore) GenerateMissingThumbnails() (int, error) {
	images, err := s.List()
	if err != nil {
		return 0, err
	}
	generated := 0
	for _, img := range images {
		if img.ThumbnailPath != "" {
			continue
		}
		f, err := os.Open(img.Path)
		if err != nil {
			continue
		}
		decoded, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping undecodable image", "filename", img.Filename, "error", err)
			}
			continue
		}
		if _, err := s.writeThumbnail(decoded, img.Filename); err != nil {
			return generated, err
		}
		generated++
	}
	return generated, nil
}

// Dir returns the images directory path.
func (s *ImageStore) Dir() string {
	return s.imagesDir
}

// ImagePath resolves a library filename to its absolute path,
// rejecting names that escape the images directory.
func (s *ImageStore) ImagePath(filename string) (string, error) {
	return resolveWithin(s.imagesDir, filename)
}

// ThumbPath resolves a library filename to its thumbnail path.
func (s *ImageStore) ThumbPath(filename string) (string, error) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	return resolveWithin(s.thumbsDir, name)
}

func (s *ImageStore) thumbPath(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	return filepath.Join(s.thumbsDir, name)
}

// writeThumbnail scales the image to a fixed width and stores it as
// JPEG next to the originals. Images already narrower than the target
// are kept at original size.
func (s *ImageStore) writeThumbnail(img image.Image, filename string) (string, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > thumbWidth {
		h = h * thumbWidth / w
		w = thumbWidth
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	path := s.thumbPath(filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return path, nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// resolveWithin joins name onto dir, rejecting names that would
// resolve outside dir.
func resolveWithin(dir, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." ||
		strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	return filepath.Join(dir, cleaned), nil
}
