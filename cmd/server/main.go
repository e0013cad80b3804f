package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/buildinfo"
	"github.com/nomis52/activityboard/config"
	"github.com/nomis52/activityboard/logging"
	"github.com/nomis52/activityboard/metrics"
	"github.com/nomis52/activityboard/server"
)

type Args struct {
	ConfigPath  string
	EnvFile     string
	ShowVersion bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := parseArgs()

	if args.ShowVersion {
		fmt.Printf("activityboard-server %s\n", buildinfo.Get())
		return nil
	}

	if err := godotenv.Load(args.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", args.EnvFile, err)
	}

	cfg, err := config.LoadConfig(args.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	collector := logging.NewLogCollector(logging.DefaultCapacity)
	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.AddSource,
	}, logging.WithCollector(collector))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	props := buildinfo.Get()
	logger.Info("activityboard server started",
		"version", props.Version,
		"git_commit", props.GitCommit,
		"config_path", args.ConfigPath,
	)

	client, err := activityclient.New(cfg.API.BaseURL,
		activityclient.WithLogger(logger.With("component", "activityclient")),
		activityclient.WithTimeout(cfg.API.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create activities client: %w", err)
	}

	registry, err := metrics.NewScrapeRegistry(cfg.Monitoring.MetricsPrefix)
	if err != nil {
		return fmt.Errorf("failed to create metrics registry: %w", err)
	}
	boardMetrics, err := metrics.NewBoardMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register board metrics: %w", err)
	}

	b := board.New(client,
		board.WithLogger(logger.With("component", "board")),
		board.WithMetrics(boardMetrics),
		board.WithStatusDelay(cfg.Board.StatusTimeout),
	)

	opts := []server.Option{
		server.WithLogger(logger.Logger),
		server.WithLogCollector(collector),
		server.WithMetricsHandler(registry.Handler()),
	}
	if cfg.Refresh.Schedule != "" {
		opts = append(opts, server.WithRefresh(cfg.Refresh.Schedule))
	}
	srv, err := server.New(&cfg, b, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// the page shows the failure notice until a later load succeeds
	if err := b.LoadAndRender(ctx); err != nil {
		logger.Warn("initial catalog load failed", "error", err)
	}

	return srv.Run(ctx)
}

func parseArgs() Args {
	configPath := flag.String("config", "", "Path to config file")
	configPathShort := flag.String("c", "", "Path to config file (shorthand)")
	envFile := flag.String("env-file", ".env", "Optional dotenv file with ACTIVITYBOARD_* settings")
	showVersion := flag.Bool("version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nActivity Board Server - extracurricular activities signup page\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --config /etc/activityboard/config.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  ACTIVITYBOARD_API_URL=http://localhost:8000 %s\n", os.Args[0])
	}

	flag.Parse()

	path := *configPath
	if path == "" && *configPathShort != "" {
		path = *configPathShort
	}

	return Args{
		ConfigPath:  path,
		EnvFile:     *envFile,
		ShowVersion: *showVersion,
	}
}
