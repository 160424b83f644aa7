// Package cli implements the stamp command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raitses/stamp/internal/config"
	"github.com/raitses/stamp/internal/layout"
	"github.com/raitses/stamp/internal/provenance"
	"github.com/raitses/stamp/internal/vcs"
)

// Flag names
const (
	FlagRoot       = "root"
	FlagGitBackend = "git-backend"
	FlagLayout     = "layout"
	FlagLogLevel   = "loglevel"
	FlagLogFormat  = "logformat"
	FlagNoColor    = "no-color"
)

// Options are the process-level inputs of the command tree
type Options struct {
	// Env is the environment snapshot consulted for commit candidates
	Env provenance.Lookup

	// LoadConfig returns the base configuration before flag overrides
	LoadConfig func() (*config.Config, error)
}

type app struct {
	opts    Options
	cfg     *config.Config
	logger  *slog.Logger
	noColor bool
}

// NewRootCommand builds the stamp command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Env == nil {
		opts.Env = os.LookupEnv
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	a := &app{opts: opts}

	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Resolve the commit hash that build artifacts are stamped with",
		Long: `stamp determines the commit hash of the current build from CI environment
variables or the git checkout, and derives versioned artifact paths and build
constants from it.

Environment candidates, highest priority first:
  GIT_COMMIT, COMMIT_HASH, SOURCE_VERSION, GITHUB_SHA, CI_COMMIT_SHA,
  VERCEL_GIT_COMMIT_SHA

Configuration is read from ~/.config/stamp/.env, ./.env and STAMP_* variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(FlagRoot, "", "project root to inspect (default from STAMP_ROOT or .)")
	flags.String(FlagGitBackend, "", fmt.Sprintf("git backend: %s or %s", vcs.BackendExec, vcs.BackendLibrary))
	flags.String(FlagLayout, "", "layout file (default <root>/"+config.DefaultLayoutFile+")")
	flags.String(FlagLogLevel, "warn", "set the log level (debug, info, warn, error)")
	flags.String(FlagLogFormat, "text", "set the log format (text, json)")
	flags.Bool(FlagNoColor, false, "disable coloured output")

	cmd.AddCommand(
		newResolveCommand(a),
		newPathsCommand(a),
		newInfoCommand(a),
		newLDFlagsCommand(a),
		newVersionCommand(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	a.logger = logger
	a.noColor, _ = cmd.Flags().GetBool(FlagNoColor)

	cfg, err := a.opts.LoadConfig()
	if err != nil {
		return &ConfigError{Err: err}
	}
	overrides := map[string]*string{
		FlagRoot:       &cfg.Root,
		FlagGitBackend: &cfg.GitBackend,
		FlagLayout:     &cfg.LayoutFile,
	}
	for name, field := range overrides {
		if cmd.Flags().Changed(name) {
			*field, _ = cmd.Flags().GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	a.cfg = cfg

	logger.Debug("configuration loaded", "root", cfg.Root, "git_backend", cfg.GitBackend)
	return nil
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString(FlagLogLevel)
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", levelName)
	}

	opts := &slog.HandlerOptions{Level: level}
	format, _ := cmd.Flags().GetString(FlagLogFormat)
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}

// resolve computes the commit hash once for this invocation
func (a *app) resolve() provenance.CommitHash {
	hash, _ := a.resolveWith(false)
	return hash
}

func (a *app) resolveWith(explain bool) (provenance.CommitHash, []provenance.Attempt) {
	// backend already validated in setup
	revision, _ := vcs.ForBackend(a.cfg.GitBackend, a.cfg.Root)
	hasRepository := vcs.HasRepository(a.cfg.Root)
	resolver := provenance.NewResolver(a.logger)

	if explain {
		return resolver.Explain(a.opts.Env, hasRepository, revision)
	}
	return resolver.Resolve(a.opts.Env, hasRepository, revision), nil
}

func (a *app) layout() (*layout.Layout, error) {
	path, explicit := a.cfg.LayoutPath()
	l, err := layout.Load(path, explicit)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return l, nil
}

func (a *app) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if a.noColor {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (a *app) paintHash(h provenance.CommitHash) string {
	if h.IsUnknown() {
		return a.paint(h.String(), color.FgYellow)
	}
	return a.paint(h.String(), color.FgGreen)
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
