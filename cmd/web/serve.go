package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/cms/defaults"
	"github.com/vineai/website/internal/config"
	"github.com/vineai/website/internal/handlers"
	"github.com/vineai/website/internal/observability"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr      string
	watch     bool
	templates string
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Runs the HTTP server until SIGINT or SIGTERM.

With --watch, edits to the content directory are reloaded without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address; defaults to :$WEB_PORT")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the content directory on change; defaults to WEB_CONTENT_WATCH")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "reparse page templates from this directory on every request")
	return cmd
}

// newRouter wires the site router to the configuration and content.
func newRouter(cfg config.Config, svc *cms.Service, logger *zap.Logger, templateDir string) http.Handler {
	return handlers.NewRouter(
		handlers.WithContent(svc),
		handlers.WithBaseURL(cfg.Site.BaseURL),
		handlers.WithRequestTimeout(cfg.Server.RequestTimeout),
		handlers.WithAnimations(cfg.Site.Animations),
		handlers.WithAnalytics(handlers.Analytics{GA4MeasurementID: cfg.Analytics.GA4MeasurementID}),
		handlers.WithTemplateDir(templateDir),
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(cfg.Observability.ProjectID),
			observability.RequestLoggerMiddleware,
			observability.RecoveryMiddleware(logger),
		),
	)
}

func (a *app) serve(ctx context.Context, opts *serveOptions) error {
	cfg, logger := a.cfg, a.logger

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := openContent(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("content close error", zap.Error(err))
		}
	}()

	addr := strings.TrimSpace(opts.addr)
	if addr == "" {
		addr = cfg.Server.Addr()
	}
	templateDir := strings.TrimSpace(opts.templates)
	if templateDir == "" && cfg.Site.DevMode {
		templateDir = "internal/handlers/templates"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(cfg, c.service, logger, templateDir),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)

	if opts.watch || cfg.Content.Watch {
		if cfg.Content.Dir == "" {
			logger.Warn("content watch requested without a content directory; ignoring")
		} else {
			g.Go(func() error {
				return defaults.Watch(gctx, cfg.Content.Dir, logger.Named("content"), c.service.SetDefaults)
			})
		}
	}

	g.Go(func() error {
		logger.Info("web listening",
			zap.String("addr", addr),
			zap.String("content_source", cfg.Content.Source),
			zap.Bool("dev_mode", cfg.Site.DevMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("web shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
