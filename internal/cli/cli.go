package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/artsea-london/artsea/internal/config"
	"github.com/artsea-london/artsea/internal/logger"
	"github.com/artsea-london/artsea/internal/store"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// errRunFailed marks a command that already reported its failure on stdout
var errRunFailed = errors.New("run finished with errors")

// app carries state shared by every subcommand of one invocation
type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *logger.Logger

	stdout io.Writer
	stderr io.Writer
}

// NewRootCmd creates the root command writing to stdout and stderr
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "artsea",
		Short: "Aggregate London museum and gallery events",
		Long: `ArtSea scrapes the what's-on listings of London museums and galleries,
normalizes them into a single event catalog and keeps it up to date across runs.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging to the console")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(
		a.newScrapeCmd(),
		a.newSeedCmd(),
		a.newVenuesCmd(),
		a.newEventsCmd(),
		a.newPruneCmd(),
	)
	return cmd
}

// setup loads configuration and installs the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.verbose {
		a.log = logger.NewConsole(logger.LevelDebug, a.stderr)
	} else {
		level, err := logger.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		a.log = logger.New(level, a.stderr)
	}
	logger.SetDefault(a.log)

	a.log.Debug("configuration loaded", logger.Fields{
		"config": a.configPath,
		"driver": cfg.Database.Driver,
		"venues": len(cfg.Venues),
	})
	return nil
}

// openStore connects to the database and brings the schema up to date
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	db, err := store.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Execute runs the CLI with os.Args and returns the process exit code
func Execute(ctx context.Context) int {
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return ExitError
	}
	return ExitSuccess
}
