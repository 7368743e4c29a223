// Package cli implements the evermind-migrate command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/mesh-intelligence/evermind-migrate/internal/ledger"
	"github.com/mesh-intelligence/evermind-migrate/internal/paths"
	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	verbose   bool
	yes       bool
}

// app carries the state shared by subcommands for one invocation.
type app struct {
	flags rootFlags
	cfg   types.Config
	log   *zap.Logger

	// Replaceable in tests.
	stdin      io.Reader
	isTerminal func() bool
	openStore  storeOpener
}

func newApp() *app {
	return &app{
		stdin:      os.Stdin,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		openStore:  connectStore,
	}
}

// NewRootCmd creates the top-level "evermind-migrate" command with global
// flags and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "evermind-migrate",
		Short: "Reshape question/answer files and load them into Evermind",
		Long: `evermind-migrate prepares question/answer JSON files for the Evermind
study app. extract keeps only question and answer, enrich adds the default
review-scheduling fields for mongoimport, and load inserts the enriched batch
straight into MongoDB.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.evermind)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "run ledger directory (default: platform data dir)")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&a.flags.yes, "yes", "y", false, "skip the confirmation prompt")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newVerifyCmd(a))
	root.AddCommand(newExtractCmd(a))
	root.AddCommand(newEnrichCmd(a))
	root.AddCommand(newLoadCmd(a))
	root.AddCommand(newHistoryCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// setup builds the logger and loads configuration before any subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	if a.log == nil {
		log, err := newLogger(a.flags.verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		a.log = log
	}

	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir, a.flags.dataDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("data_dir", cfg.DataDir),
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection))
	return nil
}

// newLogger returns a production zap logger writing to stderr, at debug
// level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// userErrors are failures the operator fixes by changing input or config.
var userErrors = []error{
	types.ErrUserIDMissing,
	types.ErrUserIDInvalid,
	types.ErrSectionIDMissing,
	types.ErrSectionIDInvalid,
	types.ErrMongoURIMissing,
	types.ErrDatabaseMissing,
	types.ErrCollectionMissing,
	types.ErrNotArray,
	types.ErrEmptyBatch,
	types.ErrNotConfirmed,
	os.ErrNotExist,
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// dataDir returns the configured data directory, falling back to the
// platform default.
func (a *app) dataDir() (string, error) {
	if a.cfg.DataDir != "" {
		return a.cfg.DataDir, nil
	}
	dir, err := paths.DefaultDataDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}

// openLedger opens the run ledger in the configured data directory.
func (a *app) openLedger() (*ledger.Ledger, error) {
	dir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	l, err := ledger.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return l, nil
}

// record runs fn as one ledger entry. The entry is finished with fn's
// error, so a failed pass is labeled in the history even though it wrote
// nothing.
func (a *app) record(pass, input, target string, fn func() (int, error)) error {
	l, err := a.openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	run, err := l.Begin(pass, input, target)
	if err != nil {
		return err
	}
	log := a.log.With(zap.String("run_id", run.RunID), zap.String("pass", pass))
	log.Debug("run started", zap.String("input", input), zap.String("target", target))

	n, runErr := fn()
	if err := l.Finish(run, n, runErr); err != nil {
		log.Error("recording run outcome", zap.Error(err))
	}
	if runErr != nil {
		log.Error("run failed", zap.Error(runErr))
		return runErr
	}
	log.Info("run finished", zap.Int("records", n))
	return nil
}
