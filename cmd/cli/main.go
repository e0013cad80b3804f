package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/buildinfo"
	"github.com/nomis52/activityboard/config"
	"github.com/nomis52/activityboard/logging"
	"github.com/nomis52/activityboard/metrics"
	"github.com/nomis52/activityboard/render"
	"github.com/nomis52/activityboard/status"
)

const flushTimeout = 10 * time.Second

type Args struct {
	ConfigPath  string
	EnvFile     string
	ShowVersion bool
	Validate    bool
	Command     []string
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
		fmt.Printf("activityboard %s\n", buildinfo.Get())
		return nil
	}

	if err := godotenv.Load(args.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", args.EnvFile, err)
	}

	cfg, err := config.LoadConfig(args.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if args.Validate {
		fmt.Printf("Configuration validation successful: %s\n", args.ConfigPath)
		return nil
	}

	// stdout carries the board rendering
	var logOpts []logging.Option
	if cfg.Logging.Output == "stdout" {
		logOpts = append(logOpts, logging.WithWriter(os.Stderr))
	}
	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.AddSource,
	}, logOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := activityclient.New(cfg.API.BaseURL,
		activityclient.WithLogger(logger.With("component", "activityclient")),
		activityclient.WithTimeout(cfg.API.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create activities client: %w", err)
	}

	boardOpts := []board.Option{
		board.WithLogger(logger.With("component", "board")),
		board.WithStatusDelay(cfg.Board.StatusTimeout),
	}

	var registry *metrics.PushRegistry
	if cfg.Monitoring.VictoriaMetricsURL != "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("failed to get hostname: %w", err)
		}
		registry = metrics.NewPushRegistry(metrics.PushConfig{
			URL:      cfg.Monitoring.VictoriaMetricsURL,
			Prefix:   cfg.Monitoring.MetricsPrefix,
			Job:      cfg.Monitoring.JobName,
			Instance: hostname,
		})
		boardMetrics, err := metrics.NewBoardMetrics(registry)
		if err != nil {
			return fmt.Errorf("failed to register board metrics: %w", err)
		}
		boardOpts = append(boardOpts, board.WithMetrics(boardMetrics))
	}

	b := board.New(client, boardOpts...)
	cmdErr := runCommand(context.Background(), b, args.Command, os.Stdout)

	if registry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := registry.Flush(ctx); err != nil {
			logger.Warn("failed to push metrics", "error", err)
		}
	}
	return cmdErr
}

// runCommand executes one board command and writes the text rendering to w.
func runCommand(ctx context.Context, b *board.Board, command []string, w io.Writer) error {
	if len(command) == 0 {
		return fmt.Errorf("a command is required: list, signup or unregister")
	}

	var msg status.Message
	switch name, rest := command[0], command[1:]; name {
	case "list":
		if err := b.LoadAndRender(ctx); err != nil {
			if rerr := render.Text(w, b.State()); rerr != nil {
				return rerr
			}
			return fmt.Errorf("list failed: %w", err)
		}
	case "signup", "unregister":
		flags := flag.NewFlagSet(name, flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		email := flags.String("email", "", "Participant email")
		activity := flags.String("activity", "", "Activity name")
		if err := flags.Parse(rest); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if name == "signup" {
			msg = b.Signup(ctx, *email, activityclient.ActivityName(*activity))
		} else {
			msg = b.Unregister(ctx, activityclient.ActivityName(*activity), *email)
		}
	default:
		return fmt.Errorf("unknown command %q", name)
	}

	if err := render.Text(w, b.State()); err != nil {
		return err
	}
	if msg.Severity == status.SeverityError {
		return fmt.Errorf("%s failed: %s", command[0], msg.Text)
	}
	return nil
}

func parseArgs() Args {
	configPath := flag.String("config", "", "Path to config file")
	configPathShort := flag.String("c", "", "Path to config file (shorthand)")
	envFile := flag.String("env-file", ".env", "Optional dotenv file with ACTIVITYBOARD_* settings")
	showVersion := flag.Bool("version", false, "Show version information")
	versionShort := flag.Bool("v", false, "Show version information (shorthand)")
	validate := flag.Bool("validate", false, "Validate configuration and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [command options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nActivity Board command line client\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  list                                 Show activities and participants\n")
		fmt.Fprintf(os.Stderr, "  signup -email E -activity A          Sign a participant up\n")
		fmt.Fprintf(os.Stderr, "  unregister -email E -activity A      Remove a participant\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -c config.yaml list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s signup -email a@mergington.edu -activity \"Chess Club\"\n", os.Args[0])
	}

	flag.Parse()

	path := *configPath
	if path == "" && *configPathShort != "" {
		path = *configPathShort
	}

	return Args{
		ConfigPath:  path,
		EnvFile:     *envFile,
		ShowVersion: *showVersion || *versionShort,
		Validate:    *validate,
		Command:     flag.Args(),
	}
}
