package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/portfolio-report/internal/errors"
	"github.com/portfolio-report/internal/types"
)

// CachedDocument is a rendered document as stored in Redis
type CachedDocument struct {
	ReportID  string             `json:"reportId"`
	Target    types.RenderTarget `json:"target"`
	PageCount int                `json:"pageCount"`
	Content   []byte             `json:"content"`
}

// DocumentCache stores rendered documents keyed by target and input fingerprint
type DocumentCache struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewDocumentCache creates a document cache with the given entry lifetime
func NewDocumentCache(redis *RedisCache, ttl time.Duration) *DocumentCache {
	return &DocumentCache{redis: redis, ttl: ttl}
}

// DocumentKey returns the cache key for a rendered document
// Format: report:<target>:<fingerprint>
func DocumentKey(target types.RenderTarget, fingerprint string) string {
	return strings.Join([]string{"report", string(target), strings.ToLower(fingerprint)}, ":")
}

// Get returns the cached document, or nil when there is no entry
func (c *DocumentCache) Get(ctx context.Context, target types.RenderTarget, fingerprint string) (*CachedDocument, error) {
	raw, found, err := c.redis.Get(ctx, DocumentKey(target, fingerprint))
	if err != nil {
		return nil, apperrors.NewCacheError("get", err)
	}
	if !found {
		return nil, nil
	}

	var doc CachedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.NewCacheError("decode", fmt.Errorf("corrupt entry: %w", err))
	}
	return &doc, nil
}

// Set stores a document under its fingerprint with the configured TTL
func (c *DocumentCache) Set(ctx context.Context, fingerprint string, doc *CachedDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewCacheError("encode", err)
	}
	if err := c.redis.Set(ctx, DocumentKey(doc.Target, fingerprint), raw, c.ttl); err != nil {
		return apperrors.NewCacheError("set", err)
	}
	return nil
}

// Invalidate drops the entry for a fingerprint
func (c *DocumentCache) Invalidate(ctx context.Context, target types.RenderTarget, fingerprint string) error {
	if err := c.redis.Del(ctx, DocumentKey(target, fingerprint)); err != nil {
		return apperrors.NewCacheError("del", err)
	}
	return nil
}
