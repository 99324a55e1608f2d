package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"markestedt/clipdeck/config"
	"markestedt/clipdeck/keyseq"
	"markestedt/clipdeck/platform"
	"markestedt/clipdeck/slots"
	"markestedt/clipdeck/storage"
	"markestedt/clipdeck/systray"
	"markestedt/clipdeck/web"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	configPath, _ := config.ConfigPath()
	slog.Info("Configuration loaded", "path", configPath)

	// Open slot persistence
	db, err := storage.Open(filepath.Dir(configPath))
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	deck, err := slots.Open(db)
	if err != nil {
		slog.Error("Failed to load slots", "error", err)
		os.Exit(1)
	}

	// The sequencer owns all synthetic keyboard output
	seq := keyseq.NewSequencer(keyseq.NewInjector())

	triggers := make(chan platform.Trigger, 16)

	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(db, deck, cfg, seq, triggers)
		deck.OnChange(func(slot int, content string) {
			webServer.BroadcastSlot(slot, content)
		})
		go func() {
			if err := webServer.Start(); err != nil {
				slog.Error("Web server stopped", "error", err)
			}
		}()
	}

	agent := NewAgent(cfg, db, deck, seq, triggers, webServer)

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// System tray: dashboard shortcut, manual modifier release, quit
	tray := systray.NewSystrayManager(cfg.Web.Port, nil, func() {
		if err := seq.ReleaseAllModifiers(); err != nil {
			slog.Error("Manual modifier release failed", "error", err)
		}
	})
	go tray.Run()
	go func() {
		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run agent
	if err := agent.Run(ctx); err != nil {
		slog.Error("Agent error", "error", err)
	}

	// Leave the keyboard clean whatever state we stopped in
	if err := seq.ReleaseAllModifiers(); err != nil {
		slog.Error("Failed to release modifiers at shutdown", "error", err)
	}

	tray.Stop()
	slog.Info("ClipDeck stopped")
}
