package repository

import (
	"context"
	"sync/atomic"
	"time"

	"fitbook/internal/domain"
	"fitbook/internal/models"

	"github.com/rs/zerolog"
)

// FailoverClassCache serves from the primary (Redis) cache and degrades to the
// in-memory fallback when it fails, probing the primary again after a minute.
type FailoverClassCache struct {
	primary   domain.ClassCache
	fallback  domain.ClassCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverClassCache(primary, fallback domain.ClassCache, logger *zerolog.Logger) *FailoverClassCache {
	return &FailoverClassCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverClassCache) Get(ctx context.Context, zone string) ([]models.ClassSummary, error) {
	if !f.isDown.Load() {
		summaries, err := f.primary.Get(ctx, zone)
		if err == nil {
			return summaries, nil
		}
		f.logger.Error().Err(err).Msg("primary class cache failed, falling back to memory")
		f.isDown.Store(true)
		f.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if f.isDown.Load() && time.Since(f.lastCheck) > time.Minute {
		summaries, err := f.primary.Get(ctx, zone)
		if err == nil {
			f.isDown.Store(false)
			return summaries, nil
		}
		f.lastCheck = time.Now()
	}

	return f.fallback.Get(ctx, zone)
}

func (f *FailoverClassCache) Set(ctx context.Context, zone string, summaries []models.ClassSummary) error {
	if !f.isDown.Load() {
		err := f.primary.Set(ctx, zone, summaries)
		if err == nil {
			return nil
		}
		f.logger.Error().Err(err).Msg("primary class cache failed, falling back to memory")
		f.isDown.Store(true)
		f.lastCheck = time.Now()
	}

	return f.fallback.Set(ctx, zone, summaries)
}

func (f *FailoverClassCache) Invalidate(ctx context.Context) error {
	// Обе стороны чистятся всегда: после failover память может хранить
	// устаревший список.
	ferr := f.fallback.Invalidate(ctx)
	if !f.isDown.Load() {
		if err := f.primary.Invalidate(ctx); err != nil {
			f.logger.Error().Err(err).Msg("primary class cache failed, falling back to memory")
			f.isDown.Store(true)
			f.lastCheck = time.Now()
			return ferr
		}
	}
	return ferr
}
