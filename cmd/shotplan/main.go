package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shotplan/shotplan/internal/api"
	"github.com/shotplan/shotplan/internal/config"
	"github.com/shotplan/shotplan/internal/db"
	"github.com/shotplan/shotplan/internal/logging"
	"github.com/shotplan/shotplan/internal/media"
	"github.com/shotplan/shotplan/internal/playback"
	"github.com/shotplan/shotplan/internal/project"
	"github.com/shotplan/shotplan/internal/ui"
	"github.com/shotplan/shotplan/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting shotplan server", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := project.NewRepository(database.Conn())
	store := project.NewStore()

	// Reopen the project that was open on last shutdown.
	if lastID, err := repo.LastProjectID(context.Background()); err == nil && lastID != "" {
		if p, err := repo.Get(context.Background(), lastID); err == nil && p != nil {
			store.Set(p)
			logger.Info("reopened project", "project_id", p.ID, "name", p.Name)
		}
	}

	images, err := media.NewImageStore(cfg.ImagesDir(), cfg.ThumbsDir(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}
	audio, err := media.NewAudioStore(cfg.AudioDir())
	if err != nil {
		return fmt.Errorf("failed to initialize audio store: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var watch *watcher.Watcher
	if dir := cfg.WatchDir(); dir != "" {
		watch = watcher.New(logger)
		go func() {
			if err := watch.Watch(ctx, dir); err != nil && err != context.Canceled {
				logger.Warn("watch folder stopped", "error", err)
			}
		}()
	}

	uiURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Port())
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                    SHOTPLAN SERVER                        ║")
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  UI URL:   %-46s ║\n", uiURL)
	fmt.Printf("║  Data Dir: %-46s ║\n", logging.SanitizePath(cfg.DataDir()))
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Store:      store,
		Repository: repo,
		Images:     images,
		Audio:      audio,
		Playback:   playback.NewServer(logger),
		Watcher:    watch,
		Logger:     logger,
		StartTime:  startTime,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Logger: logger,
			OnOpenUI: func() error {
				return openBrowser(uiURL)
			},
			OnQuit: func() {
				close(quitCh)
			},
		})
		if p := store.Current(); p != nil {
			tray.UpdateProject(p.Name, countShots(p))
		}
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	// Remember the open project for next launch.
	if p := store.Current(); p != nil {
		if err := repo.SetLastProjectID(context.Background(), p.ID); err != nil {
			logger.Warn("failed to record last project", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func countShots(p *project.Project) int {
	n := 0
	for _, sec := range p.Sections {
		n += len(sec.Shots)
	}
	return n
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
