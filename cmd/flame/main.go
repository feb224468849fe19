package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jacoelho/flame"
	"github.com/jacoelho/flame/internal/config"
	"github.com/jacoelho/flame/internal/ratelimit"
	"github.com/jacoelho/flame/internal/script"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, result := config.Parse(args)
	if result != nil {
		result.Print(stdout, stderr)
		return result.ExitCode
	}

	store := flame.New()
	logger := newLogger(cfg, stderr).With("store", store.ID())
	if cfg.Debug {
		store.UseObserver(flame.NewLogObserver(logger))
	}

	if cfg.Database != "" {
		if err := loadDatabase(store, cfg.Database); err != nil {
			logger.Error("failed to load database", "file", cfg.Database, "error", err)
			return 1
		}
	}

	pacer := ratelimit.New(cfg.RateLimit)
	logger.Debug("running scripts", "scripts", len(cfg.Scripts), "rate", pacer.Rate())

	runner := script.New(store, script.Options{
		Pacer:     pacer,
		Output:    stdout,
		Logger:    logger,
		Variables: cfg.Variables,
	})

	summary := &script.Summary{}
	start := time.Now()
	for _, file := range cfg.Scripts {
		steps, err := parseScript(file)
		if err != nil {
			logger.Error("failed to parse script", "file", file, "error", err)
			return 1
		}

		fileResult, err := runner.Run(ctx, file, steps)
		summary.Add(fileResult)
		if err != nil {
			logger.Error("script interrupted", "file", file, "error", err)
			break
		}
	}
	summary.Duration = time.Since(start)

	if err := summary.Format(stderr); err != nil {
		logger.Error("failed to write summary", "error", err)
	}
	if ctx.Err() != nil || !summary.OK() {
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func loadDatabase(store *flame.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return store.LoadYAML(f)
	case ".json":
		return store.LoadJSON(f)
	default:
		return fmt.Errorf("unsupported database format %q", filepath.Ext(path))
	}
}

func parseScript(path string) ([]script.Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return script.Parse(f)
}
