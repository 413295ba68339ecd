//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/circlepop/internal/config"
	"github.com/tomz197/circlepop/internal/desktop"
	"github.com/tomz197/circlepop/internal/record"
	"github.com/tomz197/circlepop/internal/sim"
)

func main() {
	cfg := sim.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	seed := flag.Uint64("seed", 0, "random seed, 0 for a random game")
	bestFile := flag.String("best", config.GetEnv("CIRCLEPOP_BEST_FILE", defaultBestFile()), "file keeping your best results")
	logLevel := flag.String("log-level", config.GetEnv("CIRCLEPOP_LOG_LEVEL", "info"), "log level")
	width := flag.Int("width", config.GetEnvInt("CIRCLEPOP_WIDTH", 960), "window width")
	height := flag.Int("height", config.GetEnvInt("CIRCLEPOP_HEIGHT", 720), "window height")
	flag.Parse()

	if *seed == 0 {
		if n, ok := config.GetEnvUint64("CIRCLEPOP_SEED"); ok {
			*seed = n
		}
	}

	logger := config.NewLogger(os.Stderr, *logLevel)

	store, err := record.OpenFileStore(*bestFile)
	if err != nil {
		logger.Fatal("failed to open best results", "err", err)
	}

	game := desktop.New(desktop.Options{
		Player: config.GetEnv("USER", "player"),
		Config: cfg,
		Seed:   *seed,
		Store:  store,
		Logger: logger,
	})

	ebiten.SetWindowTitle("circlepop")
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("game started", "best", store.Path())
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// defaultBestFile keeps results in the user's config directory.
func defaultBestFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "circlepop-best.json"
	}
	return filepath.Join(dir, "circlepop", "best.json")
}
