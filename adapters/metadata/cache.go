package metadata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/internal/application/service"
	"github.com/khoahotran/custom-catalogs/internal/config"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

// cachingProvider fronts the TMDB adapter with a short-lived redis cache for
// the browse endpoints. Detail lookups bypass the cache: the worker persists
// their result, so repeated fetches are rare. A redis failure degrades to a
// direct upstream call, never to an error.
type cachingProvider struct {
	next service.MetadataProvider
	rdb  *redis.Client
	ttl  time.Duration
	log  logger.Logger
}

func NewCachingProvider(next service.MetadataProvider, rdb *redis.Client, cfg config.Config, log logger.Logger) service.MetadataProvider {
	return &cachingProvider{
		next: next,
		rdb:  rdb,
		ttl:  cfg.TMDB.CacheTTL,
		log:  log,
	}
}

func (p *cachingProvider) Search(ctx context.Context, query, mediaType string) (json.RawMessage, error) {
	key := cacheKey("search", mediaType, map[string]string{"query": query})
	return p.cached(ctx, key, func() (json.RawMessage, error) {
		return p.next.Search(ctx, query, mediaType)
	})
}

func (p *cachingProvider) Discover(ctx context.Context, mediaType string, params map[string]string) (json.RawMessage, error) {
	key := cacheKey("discover", mediaType, params)
	return p.cached(ctx, key, func() (json.RawMessage, error) {
		return p.next.Discover(ctx, mediaType, params)
	})
}

func (p *cachingProvider) Details(ctx context.Context, tmdbID string, kind media.Kind) (*service.Details, error) {
	return p.next.Details(ctx, tmdbID, kind)
}

func (p *cachingProvider) cached(ctx context.Context, key string, fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	cachedBody, err := p.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return cachedBody, nil
	}
	if !errors.Is(err, redis.Nil) {
		p.log.Warn("Redis read failed, fetching from upstream", zap.String("key", key), zap.Error(err))
	}

	body, err := fetch()
	if err != nil {
		return nil, err
	}

	if err := p.rdb.Set(ctx, key, []byte(body), p.ttl).Err(); err != nil {
		p.log.Warn("Redis write failed", zap.String("key", key), zap.Error(err))
	}
	return body, nil
}

func cacheKey(endpoint, mediaType string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s;", k, params[k])
	}
	return fmt.Sprintf("tmdb:%s:%s:%s", endpoint, mediaType, hex.EncodeToString(h.Sum(nil))[:16])
}
