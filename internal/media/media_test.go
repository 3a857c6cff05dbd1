package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return &buf
}

func newImageStore(t *testing.T) *ImageStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewImageStore(filepath.Join(dir, "images"), filepath.Join(dir, "thumbs"), nil)
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}
	return s
}

func TestImageStoreSave(t *testing.T) {
	s := newImageStore(t)

	stored, err := s.Save(encodePNG(t, 800, 600))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(stored.Filename, ".png") {
		t.Errorf("filename = %q, want .png", stored.Filename)
	}
	if _, err := os.Stat(stored.Path); err != nil {
		t.Errorf("stored image missing: %v", err)
	}

	tf, err := os.Open(stored.ThumbnailPath)
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer tf.Close()
	thumb, err := jpeg.Decode(tf)
	if err != nil {
		t.Fatalf("thumbnail not a jpeg: %v", err)
	}
	if got := thumb.Bounds().Dx(); got != 384 {
		t.Errorf("thumbnail width = %d, want 384", got)
	}
}

func TestImageStoreSave_RejectsGarbage(t *testing.T) {
	s := newImageStore(t)
	if _, err := s.Save(strings.NewReader("not an image")); err == nil {
		t.Error("Save accepted non-image bytes")
	}
}

func TestImageStoreSmallImageKeepsSize(t *testing.T) {
	s := newImageStore(t)
	stored, err := s.Save(encodePNG(t, 100, 50))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	tf, err := os.Open(stored.ThumbnailPath)
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer tf.Close()
	thumb, err := jpeg.Decode(tf)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if got := thumb.Bounds().Dx(); got != 100 {
		t.Errorf("thumbnail width = %d, want 100", got)
	}
}

func TestGenerateMissingThumbnails(t *testing.T) {
	s := newImageStore(t)
	stored, err := s.Save(encodePNG(t, 500, 500))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.Remove(stored.ThumbnailPath); err != nil {
		t.Fatalf("remove thumbnail: %v", err)
	}

	n, err := s.GenerateMissingThumbnails()
	if err != nil {
		t.Fatalf("GenerateMissingThumbnails: %v", err)
	}
	if n != 1 {
		t.Errorf("generated = %d, want 1", n)
	}
	if _, err := os.Stat(stored.ThumbnailPath); err != nil {
		t.Errorf("thumbnail not regenerated: %v", err)
	}
}

func TestImagePathRejectsTraversal(t *testing.T) {
	s := newImageStore(t)
	for _, name := range []string{"../../etc/passwd", "..", "sub/../../evil.png", "/etc/passwd"} {
		if _, err := s.ImagePath(name); err == nil {
			t.Errorf("ImagePath(%q) accepted traversal", name)
		}
	}

	got, err := s.ImagePath("library.png")
	if err != nil {
		t.Fatalf("ImagePath rejected plain name: %v", err)
	}
	if filepath.Base(got) != "library.png" {
		t.Errorf("resolved path = %q", got)
	}
}

func TestAudioStoreSave(t *testing.T) {
	s, err := NewAudioStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAudioStore: %v", err)
	}
	stored, err := s.Save(strings.NewReader("fake audio bytes"), "track.WAV")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(stored.Filename, ".wav") {
		t.Errorf("filename = %q, want .wav suffix", stored.Filename)
	}
	data, err := os.ReadFile(stored.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "fake audio bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestBrowseVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"clip_a.mp4", "clip_b.WEBM", "notes.txt", ".hidden.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "renders"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	res, err := BrowseVideos(dir)
	if err != nil {
		t.Fatalf("BrowseVideos: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(res.Files), res.Files)
	}
	if res.Files[0].Stem != "clip_a" || res.Files[1].Stem != "clip_b" {
		t.Errorf("stems = %q, %q", res.Files[0].Stem, res.Files[1].Stem)
	}
	if len(res.Dirs) != 1 || res.Dirs[0].Name != "renders" {
		t.Errorf("dirs = %v", res.Dirs)
	}
	if res.CurrentDir != dir {
		t.Errorf("currentDir = %q, want %q", res.CurrentDir, dir)
	}
}
