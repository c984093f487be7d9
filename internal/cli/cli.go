package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/annaglova/breedhub-sub002/internal/app"
	"github.com/annaglova/breedhub-sub002/internal/engine"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// globalFlags are shared by every subcommand. Flags explicitly set on the
// command line override the config file.
type globalFlags struct {
	configPath string
	store      string
	dataDir    string
	seedPath   string
	logLevel   string
	logFormat  string
	user       string
}

// NewRootCommand builds the confgraph command tree. Command output goes to
// outW, logs to logW.
func NewRootCommand(outW, logW io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "confgraph",
		Short: "Compose hierarchical UI configuration from a graph of nodes",
		Long: `confgraph stores UI configuration as a graph of nodes and keeps every
derived value consistent: structural nodes aggregate their children, fields
inherit from their property chain, and every change cascades to the root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Path to a YAML config file.")
	pf.StringVar(&g.store, "store", "", "Store backend: 'memory' or 'badger'.")
	pf.StringVar(&g.dataDir, "data-dir", "", "Directory of the badger store.")
	pf.StringVar(&g.seedPath, "seed", "", "Seed file or directory. With the memory store it is applied before every command.")
	pf.StringVar(&g.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.StringVar(&g.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")
	pf.StringVar(&g.user, "user", "", "User stamped on every change.")

	root.AddCommand(
		newSeedCommand(g, logW),
		newShowCommand(g, logW),
		newDataCommand(g, logW),
		newListCommand(g, logW),
		newRebuildCommand(g, logW),
		newCascadeCommand(g, logW),
		newDepCommand(g, logW, "add-dep", true),
		newDepCommand(g, logW, "remove-dep", false),
		newChildCommand(g, logW, "add-child", true),
		newChildCommand(g, logW, "remove-child", false),
		newDeleteCommand(g, logW),
		newCloneCommand(g, logW),
		newInstantiateCommand(g, logW),
		newServeCommand(g, logW),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, outW, logW io.Writer, args []string) error {
	root := NewRootCommand(outW, logW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// config resolves the effective configuration from the file and the flags.
func (g *globalFlags) config(cmd *cobra.Command) (*app.Config, error) {
	cfg := app.DefaultConfig()
	if g.configPath != "" {
		loaded, err := app.LoadConfigFile(g.configPath)
		if err != nil {
			return nil, usageError(err)
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	override("store", &cfg.Store, g.store)
	override("data-dir", &cfg.DataDir, g.dataDir)
	override("seed", &cfg.SeedPath, g.seedPath)
	override("log-level", &cfg.LogLevel, g.logLevel)
	override("log-format", &cfg.LogFormat, g.logFormat)
	override("user", &cfg.User, g.user)

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return validated, nil
}

// withApp opens the application for the duration of fn. A memory store
// starts empty, so the configured seed is applied to it first.
func (g *globalFlags) withApp(cmd *cobra.Command, logW io.Writer, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := g.config(cmd)
	if err != nil {
		return err
	}
	a, err := app.NewApp(logW, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := a.Context(cmd.Context())
	if cfg.Store == app.StoreMemory && cfg.SeedPath != "" && cmd.Name() != "seed" {
		if _, err := a.Seed(ctx); err != nil {
			return err
		}
	}
	return fn(ctx, a)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// exitCode maps engine errors onto process exit codes.
func exitCode(err error) int {
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, engine.ErrNotFound):
		return 3
	case errors.Is(err, engine.ErrValidation),
		errors.Is(err, engine.ErrInvalidChildType),
		errors.Is(err, engine.ErrAlreadyExists),
		errors.Is(err, engine.ErrProtectedResource):
		return 4
	default:
		return 1
	}
}

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return exitCode(err)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
