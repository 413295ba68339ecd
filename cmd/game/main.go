package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomz197/circlepop/internal/config"
	"github.com/tomz197/circlepop/internal/loop"
	"github.com/tomz197/circlepop/internal/record"
	"github.com/tomz197/circlepop/internal/sim"
)

func main() {
	cfg := sim.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	seed := flag.Uint64("seed", 0, "random seed, 0 for a random game")
	bestFile := flag.String("best", config.GetEnv("CIRCLEPOP_BEST_FILE", defaultBestFile()), "file keeping your best results")
	logFile := flag.String("log", config.GetEnv("CIRCLEPOP_LOG", ""), "log file, empty to disable logging")
	logLevel := flag.String("log-level", config.GetEnv("CIRCLEPOP_LOG_LEVEL", "info"), "log level")
	flag.Parse()

	if *seed == 0 {
		if n, ok := config.GetEnvUint64("CIRCLEPOP_SEED"); ok {
			*seed = n
		}
	}

	logOut, closeLog, err := config.OpenLog(*logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	logger := config.NewLogger(logOut, *logLevel)

	store, err := record.OpenFileStore(*bestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open best results: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	s := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Player:  config.GetEnv("USER", "player"),
		Profile: termenv.EnvColorProfile(),
		Config:  cfg,
		Seed:    *seed,
		Store:   store,
		Logger:  logger,
	})
	logger.Info("game started", "best", store.Path())
	if err := s.Run(); err != nil {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
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
