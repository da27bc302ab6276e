package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/cactus-go/cactus/config"
	"github.com/cactus-go/cactus/server"
	"github.com/cactus-go/cactus/site"
)

const defaultConfigPath = "cactus.json"

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path (JSON or YAML)" default:"cactus.json"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Show version and exit"`

	Build struct {
		Clean bool `help:"Remove the build directory before building"`
	} `cmd:"" help:"Build the site into the build directory"`

	Serve struct {
		Watch  bool   `short:"w" help:"Rebuild when sources change"`
		Listen string `short:"l" help:"Listen address, tcp host:port or unix:/path"`
	} `cmd:"" help:"Build the site and serve the build directory"`
}

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	kctx := kong.Parse(&CLI,
		kong.Name(strings.ToLower(SERVER_NAME)),
		kong.Description("Static site builder."),
		kong.Vars{"version": SERVER_SIGNATURE},
	)

	cfg, err := loadConfig(CLI.Config)
	if err != nil {
		newLogger("info").Error("config", "error", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if CLI.Verbose {
		level = "debug"
	}
	logger := newLogger(level)
	slog.SetDefault(logger)

	s, err := site.New(cfg, logger)
	if err != nil {
		logger.Error("site", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "build":
		if CLI.Build.Clean {
			if err := s.Clean(); err != nil {
				logger.Error("clean", "error", err)
				os.Exit(1)
			}
		}
		report, err := s.Build(ctx)
		if err != nil {
			logger.Error("build", "error", err)
			os.Exit(1)
		}
		logger.Info("static build completed", "output", cfg.BuildDir, "built", report.Built)
	case "serve":
		if CLI.Serve.Listen != "" {
			cfg.Listen = CLI.Serve.Listen
		}
		srv := server.New(cfg, s, logger, SERVER_SIGNATURE, CLI.Serve.Watch)
		if err := srv.Start(ctx); err != nil {
			logger.Error("server", "error", err)
			os.Exit(1)
		}
	}
}

// loadConfig reads path, falling back to defaults when the default file is absent.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return nil, err
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
