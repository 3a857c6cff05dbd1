package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shotplan/shotplan/internal/project"
)

func buildAndReopen(t *testing.T, shots []Shot, imagesDir, audioDir string) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := BuildQueueZip(&buf, shots, imagesDir, audioDir); err != nil {
		t.Fatalf("BuildQueueZip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reopen zip: %v", err)
	}
	return zr
}

func readEntry(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	f, err := zr.Open(name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return buf.Bytes()
}

func TestBuildQueueZip(t *testing.T) {
	imagesDir := t.TempDir()
	audioDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(imagesDir, "ref.png"), []byte("png bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(audioDir, "guide.mp3"), []byte("mp3 bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	shots := []Shot{
		{
			TaskID:       1,
			Prompt:       "wide shot of the alley",
			RefImagePath: "ref.png",
			AudioPath:    "guide.mp3",
			Params:       project.Params{"seed": float64(42)},
		},
		{
			TaskID: 2,
			Prompt: "closeup",
			Params: project.Params{"image_prompt_type": "E"},
		},
	}

	zr := buildAndReopen(t, shots, imagesDir, audioDir)

	var queue []Task
	if err := json.Unmarshal(readEntry(t, zr, "queue.json"), &queue); err != nil {
		t.Fatalf("decode queue.json: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("got %d tasks, want 2", len(queue))
	}

	p1 := queue[0].Params
	if p1["prompt"] != "wide shot of the alley" {
		t.Errorf("task 1 prompt = %v", p1["prompt"])
	}
	if p1["image_start"] != "task1_image_start_0.png" {
		t.Errorf("task 1 image_start = %v", p1["image_start"])
	}
	if p1["image_end"] != nil {
		t.Errorf("task 1 image_end = %v, want null", p1["image_end"])
	}
	if p1["audio_guide"] != "task1_audio_guide_0.mp3" {
		t.Errorf("task 1 audio_guide = %v", p1["audio_guide"])
	}
	if p1["image_prompt_type"] != "S" {
		t.Errorf("task 1 image_prompt_type = %v, want S", p1["image_prompt_type"])
	}
	if p1["seed"] != float64(42) {
		t.Errorf("task 1 seed = %v", p1["seed"])
	}

	// No start image: the inherited value must survive untouched.
	if got := queue[1].Params["image_prompt_type"]; got != "E" {
		t.Errorf("task 2 image_prompt_type = %v, want E", got)
	}

	if got := readEntry(t, zr, "task1_image_start_0.png"); string(got) != "png bytes" {
		t.Errorf("image entry = %q", got)
	}
	if got := readEntry(t, zr, "task1_audio_guide_0.mp3"); string(got) != "mp3 bytes" {
		t.Errorf("audio entry = %q", got)
	}
}

func TestBuildQueueZip_BothImagesSetsSE(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	shots := []Shot{{
		TaskID:          1,
		RefImagePath:    "a.png",
		EndRefImagePath: "b.png",
		Params:          project.Params{},
	}}

	zr := buildAndReopen(t, shots, dir, dir)
	var queue []Task
	if err := json.Unmarshal(readEntry(t, zr, "queue.json"), &queue); err != nil {
		t.Fatal(err)
	}
	if got := queue[0].Params["image_prompt_type"]; got != "SE" {
		t.Errorf("image_prompt_type = %v, want SE", got)
	}
	if got := queue[0].Params["image_end"]; got != "task1_image_end_0.png" {
		t.Errorf("image_end = %v", got)
	}
}

func TestBuildQueueZip_MissingMediaSkipped(t *testing.T) {
	shots := []Shot{{
		TaskID:       1,
		RefImagePath: "gone.png",
		Params:       project.Params{},
	}}

	zr := buildAndReopen(t, shots, t.TempDir(), t.TempDir())
	if len(zr.File) != 1 || zr.File[0].Name != "queue.json" {
		names := make([]string, len(zr.File))
		for i, f := range zr.File {
			names[i] = f.Name
		}
		t.Errorf("entries = %v, want only queue.json", names)
	}

	var queue []Task
	if err := json.Unmarshal(readEntry(t, zr, "queue.json"), &queue); err != nil {
		t.Fatal(err)
	}
	if got := queue[0].Params["image_start"]; got != "task1_image_start_0.png" {
		t.Errorf("image_start = %v, manifest should still name the entry", got)
	}
}
