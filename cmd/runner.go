package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/banger/internal/repositories"
	"github.com/desertthunder/banger/internal/shared"
	"github.com/desertthunder/banger/internal/tasks"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	sleep      repositories.SleepFunc
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Sleep      repositories.SleepFunc // delay between read attempts, defaults to [repositories.Sleep]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Sleep == nil {
		opts.Sleep = repositories.Sleep
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		sleep:      opts.Sleep,
	}
}

// SetLogger replaces the logger used by subsequent commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "banger",
		Usage:   "Serve & inspect songs shared through the banger bot",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides config)",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, songsCommand, statsCommand, browseCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure resolves the config file and environment and applies the log level. Runs before every command.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	config, err := shared.ResolveConfig(r.configPath)
	if err != nil {
		return ctx, fmt.Errorf("failed to load config: %w", err)
	}

	if lvl := cmd.String("log-level"); lvl != "" {
		config.Log.Level = lvl
	}
	level, err := shared.ParseLogLevel(config.Log.Level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)

	r.config = config
	return ctx, nil
}

// catalog builds a [tasks.Catalog] over the document at path using the configured retry policy.
func (r *Runner) catalog(path string) *tasks.Catalog {
	repo := repositories.NewDocumentRepository(path, repositories.DocumentOpts{
		MaxAttempts: r.config.Database.MaxRetries,
		RetryDelay:  time.Duration(r.config.Database.RetryDelayMS) * time.Millisecond,
		Sleep:       r.sleep,
		Logger:      r.logger,
	})
	return tasks.NewCatalog(repo, r.logger)
}

// sourcePath prefers the --source flag over the configured path.
func sourcePath(cmd *cli.Command, configured string) string {
	if s := cmd.String("source"); s != "" {
		return s
	}
	return configured
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
