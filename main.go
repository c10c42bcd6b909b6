// tli-tracker renders a game session's tracked value as a terminal
// overlay, with a mouse-driven edit mode for arranging widgets.
//
// It runs in two modes. The default mode launches the overlay TUI, which
// connects to a host daemon for settings and live session state. With
// -serve it runs the host daemon itself: the WebSocket bridge plus the
// settings store that all overlay windows share.
//
// Usage:
//
//	tli-tracker [flags]
//
// Flags:
//
//	-serve          Run the host daemon instead of the overlay
//	-demo           With -serve, push simulated session state
//	-config string  Path to configuration file
//	-host string    Override the host bridge URL
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/nyk-lgtm/tli-tracker/pkg/config"
	"github.com/nyk-lgtm/tli-tracker/pkg/hostd"
	"github.com/nyk-lgtm/tli-tracker/pkg/overlay"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		runServe    = flag.Bool("serve", false, "Run the host daemon instead of the overlay")
		runDemo     = flag.Bool("demo", false, "With -serve, push simulated session state")
		hostURL     = flag.String("host", "", "Override the host bridge URL")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tli-tracker %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if *runServe {
		os.Exit(runDaemon(*configPath, *runDemo, *verbose))
	}
	os.Exit(runOverlay(*configPath, *hostURL, *verbose))
}

func runDaemon(configPath string, demo, verbose bool) int {
	cfg, err := hostd.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load daemon config: %v\n", err)
		return 1
	}
	if demo {
		cfg.Demo = true
	}

	// Daemon logs go to stderr and, when configured, a log file too.
	logWriter := io.Writer(os.Stderr)
	if cfg.LogFile != "" {
		w, closeLog, err := openLogFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return 1
		}
		defer closeLog()
		logWriter = io.MultiWriter(os.Stderr, w)
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel, verbose),
	}))

	storage, err := hostd.NewStorage(cfg.DataDir, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		return 1
	}
	srv := hostd.NewServer(cfg.Addr, storage, logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	if cfg.Demo {
		logger.Info("demo mode: pushing simulated session state")
		go hostd.NewSimulator(srv, cfg.StateInterval.Duration).Run(ctx)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		return 1
	}
	return 0
}

func runOverlay(configPath, hostURL string, verbose bool) int {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "the overlay needs a terminal; use -serve for the daemon")
		return 1
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if hostURL != "" {
		cfg.Host.URL = hostURL
	}

	// The TUI owns the terminal, so logs go to a file only.
	logWriter, closeLog, err := openLogFile(cfg.General.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel(cfg.General.LogLevel, verbose),
	}))

	ctx, cancel := signalContext(logger)
	defer cancel()

	p := tea.NewProgram(overlay.New(cfg, logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("overlay failed", "error", err)
		fmt.Fprintf(os.Stderr, "overlay failed: %v\n", err)
		return 1
	}
	return 0
}

// openLogFile returns the overlay's log destination. With no file
// configured, logs are discarded rather than fighting the TUI for stderr.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func logLevel(name string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()
	return ctx, cancel
}
