// Package ui provides the system tray for the shotplan server.
package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
)

type Tray struct {
	logger *slog.Logger

	projectItem *systray.MenuItem
	shotsItem   *systray.MenuItem

	mu          sync.Mutex
	projectName string
	shotCount   int

	onOpenUI func() error
	onQuit   func()
}

type TrayConfig struct {
	Logger   *slog.Logger
	OnOpenUI func() error
	OnQuit   func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		logger:   cfg.Logger,
		onOpenUI: cfg.OnOpenUI,
		onQuit:   cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Shotplan")
	systray.SetTooltip("Shotplan Server")

	t.mu.Lock()
	t.projectItem = systray.AddMenuItem("Project: none", "Currently open project")
	t.projectItem.Disable()

	t.shotsItem = systray.AddMenuItem("Shots: 0", "Planned shots in the open project")
	t.shotsItem.Disable()
	t.applyLocked()
	t.mu.Unlock()

	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open in Browser", "Open the planning UI")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Shotplan Server")

	go func() {
		for {
			select {
			case <-openItem.ClickedCh:
				t.handleOpenUI()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleOpenUI() {
	if t.onOpenUI != nil {
		if err := t.onOpenUI(); err != nil {
			t.logger.Error("failed to open UI", "error", err)
		}
	}
}

// UpdateProject reflects the open project in the tray menu. Safe to
// call before the tray is ready; the values apply once it is.
func (t *Tray) UpdateProject(name string, shotCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.projectName = name
	t.shotCount = shotCount
	if t.projectItem != nil {
		t.applyLocked()
	}
}

func (t *Tray) applyLocked() {
	name := t.projectName
	if name == "" {
		name = "none"
	}
	t.projectItem.SetTitle("Project: " + name)
	t.shotsItem.SetTitle(fmt.Sprintf("Shots: %d", t.shotCount))
}

func (t *Tray) Quit() {
	systray.Quit()
}
