package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/circlepop/internal/config"
	"github.com/tomz197/circlepop/internal/draw"
	"github.com/tomz197/circlepop/internal/loop"
	"github.com/tomz197/circlepop/internal/record"
	"github.com/tomz197/circlepop/internal/sim"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger := config.NewLogger(os.Stderr, config.GetEnv("CIRCLEPOP_LOG_LEVEL", "info"))
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	// Every session plays its own game; players share the hub and the leaderboard.
	g := &games{
		hub:    loop.NewHub(),
		store:  record.NewMemoryStore(),
		config: sim.DefaultConfig(),
		logger: logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY so clicks reach the game without delay
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")

		// Notify players and wait for them to disconnect
		logger.Info("notifying connected players", "players", g.hub.Players())
		if !g.hub.Shutdown(15 * time.Second) {
			logger.Warn("players still connected at shutdown", "players", g.hub.Players())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// games creates a session per SSH connection.
type games struct {
	hub    *loop.Hub
	store  record.Store
	config sim.Config
	logger *log.Logger
}

// middleware handles SSH sessions and runs the game.
func (g *games) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		g.logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		win := &window{}
		win.set(pty.Window)
		go win.follow(winCh)

		out := termenv.NewOutput(sess, termenv.WithEnvironment(sshEnviron{sess: sess, term: pty.Term}), termenv.WithUnsafe())

		s := loop.NewSession(bufio.NewReader(sess), sess, loop.Options{
			Player:       sess.User(),
			TermSizeFunc: win.size,
			Profile:      out.EnvColorProfile(),
			Config:       g.config,
			Store:        g.store,
			Logger:       g.logger,
			Hub:          g.hub,
			Inactivity:   true,
		})
		if err := s.Run(); err != nil {
			g.logger.Error("game error", "user", sess.User(), "err", err)
		}

		g.logger.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sshEnviron exposes the client's environment to termenv so color support
// is detected for the remote terminal, not the server's.
type sshEnviron struct {
	sess ssh.Session
	term string
}

func (e sshEnviron) Environ() []string {
	return e.sess.Environ()
}

func (e sshEnviron) Getenv(key string) string {
	if key == "TERM" {
		return e.term
	}
	for _, kv := range e.sess.Environ() {
		if v, ok := strings.CutPrefix(kv, key+"="); ok {
			return v
		}
	}
	return ""
}

// window holds the latest pty size reported by the client.
type window struct {
	mu  sync.Mutex
	win ssh.Window
}

func (w *window) set(win ssh.Window) {
	w.mu.Lock()
	w.win = win
	w.mu.Unlock()
}

// follow applies window changes until the channel closes with the session.
func (w *window) follow(changes <-chan ssh.Window) {
	for win := range changes {
		w.set(win)
	}
}

func (w *window) size() (int, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.win.Width, w.win.Height, nil
}

var _ draw.TermSizeFunc = (*window)(nil).size
