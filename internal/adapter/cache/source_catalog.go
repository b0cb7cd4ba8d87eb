package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

const sourceCatalogKey = "sources:catalog"

// CachedSourceRepository is a read-through cache in front of the source
// catalog. The catalog is immutable at runtime, so a stale window equal to
// the TTL is harmless.
type CachedSourceRepository struct {
	inner ports.SourceRepository
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedSourceRepository(inner ports.SourceRepository, cache ports.Cache, ttl time.Duration, log *zap.Logger) ports.SourceRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedSourceRepository{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func (r *CachedSourceRepository) Seed(ctx context.Context, sources []domain.EmissionSource) error {
	if err := r.inner.Seed(ctx, sources); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, sourceCatalogKey); err != nil {
		r.log.Warn("Failed to invalidate source catalog cache", zap.Error(err))
	}
	return nil
}

func (r *CachedSourceRepository) FindAll(ctx context.Context) ([]domain.EmissionSource, error) {
	if raw, err := r.cache.Get(ctx, sourceCatalogKey); err == nil {
		var sources []domain.EmissionSource
		if err := json.Unmarshal([]byte(raw), &sources); err == nil {
			return sources, nil
		}
	}

	sources, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, sourceCatalogKey, sources, r.ttl); err != nil {
		r.log.Warn("Failed to cache source catalog", zap.Error(err))
	}
	return sources, nil
}

func (r *CachedSourceRepository) FindByName(ctx context.Context, name string) (*domain.EmissionSource, error) {
	sources, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sources {
		if sources[i].Name == name {
			return &sources[i], nil
		}
	}
	return nil, nil
}
