package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/cms/defaults"
	"github.com/vineai/website/internal/config"
	"github.com/vineai/website/internal/store"
)

// content is the content service plus whatever has to be released on exit.
type content struct {
	service *cms.Service
	closers []func() error
}

func (c *content) Close() error {
	var errs []error
	for _, fn := range c.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

// loadDefaults reads the fallback content from dir, or the embedded copy when dir is empty.
func loadDefaults(dir string) (*cms.Defaults, error) {
	if dir == "" {
		return defaults.Load(defaults.Embedded())
	}
	return defaults.LoadDir(dir)
}

// openContent builds the content service for the configured source.
func openContent(ctx context.Context, cfg config.Config, logger *zap.Logger) (*content, error) {
	d, err := loadDefaults(cfg.Content.Dir)
	if err != nil {
		return nil, err
	}

	c := &content{}
	var source cms.Source
	switch cfg.Content.Source {
	case config.SourceSanity:
		client, err := cms.NewSanityClient(cms.SanityOptions{
			ProjectID:  cfg.Sanity.ProjectID,
			Dataset:    cfg.Sanity.Dataset,
			APIVersion: cfg.Sanity.APIVersion,
			Token:      cfg.Sanity.Token,
			UseCDN:     cfg.Sanity.UseCDN,
			APIHost:    cfg.Sanity.APIHost,
			Timeout:    cfg.Sanity.Timeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("content source", zap.String("source", "sanity"), zap.String("endpoint", client.Endpoint()))
		source = client
	case config.SourceSQLite:
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, st.Close)
		logger.Info("content source", zap.String("source", "sqlite"), zap.String("path", st.Path()))
		source = st
	case config.SourceStatic:
		logger.Info("content source", zap.String("source", "static"))
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Content.Source)
	}

	if source != nil {
		source = cms.NewCachedSource(source,
			cms.WithTTL(cfg.Content.CacheTTL),
			cms.WithSlugTTL(cfg.Content.SlugCacheTTL),
		)
	}
	c.service = cms.NewService(cms.Deps{Source: source, Defaults: d})
	return c, nil
}
