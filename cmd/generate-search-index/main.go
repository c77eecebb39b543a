package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Itqan-community/RATQ/internal/config"
	"github.com/Itqan-community/RATQ/internal/logging"
	"github.com/Itqan-community/RATQ/internal/pipeline"
	"github.com/Itqan-community/RATQ/internal/search"
	"github.com/Itqan-community/RATQ/internal/storage"
	"github.com/Itqan-community/RATQ/internal/transform"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	root       string
	output     string
	logLevel   string
	sqlitePath string
	manifest   string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "generate-search-index",
		Short: "Build search-index.json from the markdown documents under the root",
		Long: `Scans the root directory for markdown files, extracts title, language
and group for each one, and writes the result as a JSON array consumed by
the site search widget.

Run without arguments in the repository root to regenerate search-index.json.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadOptional(opts.configPath)
			if err != nil {
				logging.BuildLogger(opts.logLevel, cmd.OutOrStdout()).Error("generate failed", "error", err)
				return err
			}
			opts.apply(cmd, cfg)

			logger := logging.BuildLogger(cfg.LogLevel, cmd.OutOrStdout())
			if err := generate(cmd.Context(), logger, cfg); err != nil {
				logger.Error("generate failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to optional YAML config")
	cmd.Flags().StringVar(&opts.root, "root", "", "Directory to scan (default \".\")")
	cmd.Flags().StringVar(&opts.output, "output", "", "Index filename written at the root (default \"search-index.json\")")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite", "", "Also export the index to an SQLite FTS5 database at this path")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "Manifest with title/group overrides, relative to the root (disabled by default)")

	return cmd
}

// apply copies explicitly set flags over the loaded config.
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = o.root
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("sqlite") {
		cfg.SQLitePath = o.sqlitePath
	}
	if flags.Changed("manifest") {
		cfg.Manifest = o.manifest
	}
}

func generate(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	manifest, err := pipeline.LoadManifest(cfg.ManifestPath())
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	if manifest.Len() > 0 {
		logger.Info("loaded manifest", "path", cfg.ManifestPath(), "entries", manifest.Len())
	}

	runner := &pipeline.Runner{
		Root:       cfg.Root,
		Output:     cfg.Output,
		Excludes:   cfg.Exclude,
		Classifier: transform.NewClassifier(cfg.Rules()),
		Manifest:   manifest,
		Storage:    storage.NewFSStorage(cfg.Root),
		Logger:     logger,
	}

	if path := cfg.IndexPath(); path != "" {
		runner.OpenIndexer = func() (search.Indexer, error) {
			logger.Debug("exporting to sqlite", "path", path)
			indexer, err := search.NewSQLiteIndexer(path)
			if err != nil {
				return nil, err
			}
			return indexer, nil
		}
	}

	_, err = runner.Run(ctx)
	return err
}

// run executes the command with args. Diagnostics go to stdout.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stdout)
	return cmd.ExecuteContext(ctx)
}
