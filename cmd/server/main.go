// Package main implements the scry-study command: the HTTP server for a
// Leitner flashcard study workflow plus its database and import tooling.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/migrate"
	"github.com/phrazzld/scry-study/internal/platform/pdf"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	port       int
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "scry-study",
		Short:        "Leitner spaced-repetition study server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default: ./config.yaml if present)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serve.Flags().IntVar(&opts.port, "port", 0, "listen port, overrides server.port")

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrate.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), opts, args[0])
		},
	}

	importPDF := &cobra.Command{
		Use:   "import-pdf <file>",
		Short: "Store the text of a PDF as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportPDF(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}

	root.AddCommand(serve, migrateCmd, importPDF)
	return root
}

// bootstrap loads configuration and sets up the process logger.
func bootstrap(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))
	return cfg, log, nil
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log, err := bootstrap(opts)
	if err != nil {
		return err
	}

	d, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer d.close()

	if cfg.Database.AutoMigrate {
		if err := d.migrateUp(ctx); err != nil {
			return err
		}
	}

	app, err := newApplication(ctx, cfg, log, d)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}

func runMigrate(ctx context.Context, opts *rootOptions, command string) error {
	cfg, log, err := bootstrap(opts)
	if err != nil {
		return err
	}

	d, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer d.close()

	runner, err := d.migrator()
	if err != nil {
		return err
	}
	return runner.Run(ctx, command)
}

func runImportPDF(ctx context.Context, opts *rootOptions, path string, out io.Writer) error {
	cfg, log, err := bootstrap(opts)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	d, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer d.close()

	if cfg.Database.AutoMigrate {
		if err := d.migrateUp(ctx); err != nil {
			return err
		}
	}

	app, err := newApplication(ctx, cfg, log, d)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	doc, err := app.contentService.ImportDocument(ctx, pdf.SafeFileName(filepath.Base(path)), f, info.Size())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "imported document %d %q (%d pages)\n", doc.ID, doc.Title, doc.Pages)
	return err
}
