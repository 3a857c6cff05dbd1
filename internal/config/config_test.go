package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	os.Unsetenv(EnvPort)
	os.Unsetenv(EnvLogLevel)
	os.Unsetenv(EnvWatchDir)
	os.Unsetenv(EnvHeadless)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.WatchDir() != "" {
		t.Errorf("WatchDir = %q, want empty", cfg.WatchDir())
	}
	if cfg.Headless() {
		t.Error("Headless = true, want false")
	}
}

func TestPort_FromEnv(t *testing.T) {
	os.Setenv(EnvPort, "9999")
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port())
	}
}

func TestPort_Invalid(t *testing.T) {
	for _, v := range []string{"abc", "0", "70000"} {
		os.Setenv(EnvPort, v)
		if _, err := New(); err == nil {
			t.Errorf("New() with %s=%q: want error", EnvPort, v)
		}
	}
	os.Unsetenv(EnvPort)
}

func TestDataDirPaths(t *testing.T) {
	os.Setenv(EnvDataDir, "/tmp/splan")
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath() != filepath.Join("/tmp/splan", DBFilename) {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.ImagesDir() != "/tmp/splan/images" {
		t.Errorf("ImagesDir = %q", cfg.ImagesDir())
	}
	if cfg.ThumbsDir() != "/tmp/splan/thumbnails" {
		t.Errorf("ThumbsDir = %q", cfg.ThumbsDir())
	}
	if cfg.AudioDir() != "/tmp/splan/audio" {
		t.Errorf("AudioDir = %q", cfg.AudioDir())
	}
}

func TestHeadless_FromEnv(t *testing.T) {
	os.Setenv(EnvHeadless, "true")
	defer os.Unsetenv(EnvHeadless)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Headless() {
		t.Error("Headless = false, want true")
	}
}
