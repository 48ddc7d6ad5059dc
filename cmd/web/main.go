// Command web serves and exports the VineAI marketing site.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vineai/website/internal/config"
	"github.com/vineai/website/internal/observability"
)

// app carries the state shared by every subcommand.
type app struct {
	envFile    string
	logLevel   string
	contentDir string

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "web",
		Short: "VineAI marketing site",
		Long: `Serves the VineAI marketing site and its blog.

Content comes from a Sanity dataset, a local SQLite document store, or the
static defaults compiled into the binary. Missing or failing content always
falls back to the defaults.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file read after the process environment")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	flags.StringVar(&a.contentDir, "content-dir", "", "directory of default content replacing the embedded copy; overrides WEB_CONTENT_DIR")

	serve := newServeCmd(a)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newExportCmd(a), newSlugsCmd(a), newSeedCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context(), config.WithEnvFile(a.envFile))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if strings.TrimSpace(a.contentDir) != "" {
		cfg.Content.Dir = strings.TrimSpace(a.contentDir)
	}
	a.cfg = cfg

	level := cfg.Observability.LogLevel
	if strings.TrimSpace(a.logLevel) != "" {
		level = a.logLevel
	}
	logger, err := observability.NewLogger(level)
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	a.logger = logger.Named("web")
	return nil
}
