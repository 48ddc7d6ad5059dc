package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/handlers"
	"github.com/vineai/website/public"
)

const notFoundPath = "/404"

type exportOptions struct {
	out         string
	concurrency int
}

func newExportCmd(a *app) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Pre-render every page into a static directory",
		Long: `Renders the home, team and blog pages, one article page per enumerated slug,
sitemap.xml, robots.txt, a 404 page and the static assets into --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.export(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.out, "out", "dist", "output directory")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", runtime.NumCPU(), "pages rendered in parallel")
	return cmd
}

func (a *app) export(ctx context.Context, cmd *cobra.Command, opts *exportOptions) error {
	c, err := openContent(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer c.Close()

	assets, err := public.StaticFS()
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	router := newRouter(a.cfg, c.service, a.logger, "")
	n, err := exportSite(ctx, router, c.service, assets, opts.out, opts.concurrency)
	if err != nil {
		return err
	}
	a.logger.Info("export complete", zap.String("out", opts.out), zap.Int("files", n))
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d files to %s\n", n, opts.out)
	return nil
}

// exportSite renders every route of router into out and copies assets below out/assets. It returns
// the number of files written.
func exportSite(ctx context.Context, router http.Handler, svc *cms.Service, assets fs.FS, out string, concurrency int) (int, error) {
	if strings.TrimSpace(out) == "" {
		return 0, fmt.Errorf("export: output directory required")
	}
	if concurrency < 1 {
		concurrency = 1
	}

	routes := append(handlers.SitemapPaths(ctx, svc), "/sitemap.xml", "/robots.txt")

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, route := range routes {
		g.Go(func() error {
			if err := exportRoute(gctx, router, route, http.StatusOK, filepath.Join(out, outputPath(route))); err != nil {
				return err
			}
			written.Add(1)
			return nil
		})
	}
	g.Go(func() error {
		if err := exportRoute(gctx, router, notFoundPath, http.StatusNotFound, filepath.Join(out, "404.html")); err != nil {
			return err
		}
		written.Add(1)
		return nil
	})
	g.Go(func() error {
		n, err := copyAssets(assets, filepath.Join(out, "assets"))
		written.Add(int64(n))
		return err
	})
	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}
	return int(written.Load()), nil
}

// outputPath maps a route to the file a static host serves for it.
func outputPath(route string) string {
	if path.Ext(route) != "" {
		return filepath.FromSlash(strings.TrimPrefix(route, "/"))
	}
	return filepath.Join(filepath.FromSlash(strings.TrimPrefix(route, "/")), "index.html")
}

func exportRoute(ctx context.Context, router http.Handler, route string, wantStatus int, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := httptest.NewRequest(http.MethodGet, route, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		return fmt.Errorf("export: %s returned %d, want %d", route, rec.Code, wantStatus)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(dst, rec.Body.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", route, err)
	}
	return nil
}

func copyAssets(assets fs.FS, dst string) (int, error) {
	var n int
	err := fs.WalkDir(assets, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(name))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(assets, name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("export: copy assets: %w", err)
	}
	return n, nil
}
