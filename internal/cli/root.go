package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/VladmirB/sigmah/internal/config"
	"github.com/VladmirB/sigmah/internal/metrics"
	"github.com/VladmirB/sigmah/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigPath  string
	DBPath      string
	MetricsFile string

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the activityinfo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "activityinfo",
		Short: "ActivityInfo site queries and reports",
		Long: "Query the sites of an ActivityInfo database with authorization scoping, " +
			"paging and sorting, and render report definitions to PDF or RTF.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := loadConfig(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Log, opts.Verbose))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			path := opts.MetricsFile
			if path == "" && opts.Config != nil {
				path = opts.Config.Metrics.Textfile
			}
			if path == "" {
				return nil
			}
			return metrics.WriteTextfile(path)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides store.path)")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write prometheus metrics to this file on exit")

	cmd.AddCommand(NewDBCommand(opts))
	cmd.AddCommand(NewSitesCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// Execute runs the root command against the process arguments and prints
// the error, if any, to stderr.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// newLogger builds the process logger. Verbose forces debug level.
func newLogger(w io.Writer, lc config.LogConfig, verbose bool) *slog.Logger {
	level, err := lc.SlogLevel()
	if err != nil || verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func (o *RootOptions) cfg() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

// storePath is the --db override or the configured database path.
func (o *RootOptions) storePath() string {
	if o.DBPath != "" {
		return o.DBPath
	}
	return o.cfg().Store.Path
}

// openStore opens the database at storePath.
func (o *RootOptions) openStore() (*store.Store, error) {
	st, err := store.OpenDriver(o.cfg().Store.Driver, o.storePath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
