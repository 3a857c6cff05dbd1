// Package export builds the generation queue ZIP consumed by the
// external video-generation backend.
package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shotplan/shotplan/internal/project"
)

// Shot is one flattened export item. TaskID orders the queue; media
// paths may be absolute or relative to the corresponding storage area.
type Shot struct {
	TaskID          int
	Prompt          string
	RefImagePath    string
	EndRefImagePath string
	AudioPath       string
	Params          project.Params
}

// Task is one entry of the queue.json manifest.
type Task struct {
	ID     int            `json:"id"`
	Params project.Params `json:"params"`
}

// BuildQueueZip streams a ZIP containing queue.json plus every
// referenced media file, renamed to the task-scoped layout the backend
// expects. Media files missing on disk are silently omitted from the
// archive; their manifest entries still carry the expected name.
func BuildQueueZip(w io.Writer, shots []Shot, imagesDir, audioDir string) error {
	zw := zip.NewWriter(w)

	queue := make([]Task, 0, len(shots))
	for _, shot := range shots {
		var imageName, endImageName, audioName string
		if shot.RefImagePath != "" {
			imageName = fmt.Sprintf("task%d_image_start_0%s", shot.TaskID, filepath.Ext(shot.RefImagePath))
		}
		if shot.EndRefImagePath != "" {
			endImageName = fmt.Sprintf("task%d_image_end_0%s", shot.TaskID, filepath.Ext(shot.EndRefImagePath))
		}
		if shot.AudioPath != "" {
			audioName = fmt.Sprintf("task%d_audio_guide_0%s", shot.TaskID, filepath.Ext(shot.AudioPath))
		}

		params := shot.Params.Clone()
		params["prompt"] = shot.Prompt
		params["image_start"] = nullable(imageName)
		params["image_end"] = nullable(endImageName)
		params["audio_guide"] = nullable(audioName)
		switch {
		case imageName != "" && endImageName != "":
			params["image_prompt_type"] = "SE"
		case imageName != "":
			params["image_prompt_type"] = "S"
		}

		queue = append(queue, Task{ID: shot.TaskID, Params: params})

		if err := addMediaFile(zw, shot.RefImagePath, imagesDir, imageName); err != nil {
			return err
		}
		if err := addMediaFile(zw, shot.EndRefImagePath, imagesDir, endImageName); err != nil {
			return err
		}
		if err := addMediaFile(zw, shot.AudioPath, audioDir, audioName); err != nil {
			return err
		}
	}

	manifest, err := json.MarshalIndent(queue, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode queue manifest: %w", err)
	}
	entry, err := zw.Create("queue.json")
	if err != nil {
		return err
	}
	if _, err := entry.Write(manifest); err != nil {
		return err
	}

	return zw.Close()
}

// addMediaFile copies one media file into the archive under entryName.
// A missing source file is skipped, not an error: exports of partially
// populated projects are routine.
func addMediaFile(zw *zip.Writer, path, baseDir, entryName string) error {
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open media file: %w", err)
	}
	defer f.Close()

	entry, err := zw.Create(entryName)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, f)
	return err
}

// nullable keeps the manifest's null convention for absent media.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
