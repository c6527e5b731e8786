// Package catalog serves the read-only LLM model descriptors prompts link to.
// Descriptors live in postgres; list reads go through a short-TTL redis cache
// because the set changes rarely and the compile path hits it on every call.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

const (
	keyAllModels   = "catalog:models"
	keyByProvider  = "catalog:models:provider:%s"
	keyModelByName = "catalog:model:%s"
)

type Service struct {
	store  *store.Store
	redis  *redis.Client // nil disables caching
	ttl    time.Duration
	logger *slog.Logger
}

func NewService(st *store.Store, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{store: st, redis: rdb, ttl: ttl, logger: logger}
}

// ModelByName satisfies compiler.ModelResolver.
func (s *Service) ModelByName(ctx context.Context, name string) (*models.LLMModel, error) {
	key := fmt.Sprintf(keyModelByName, name)
	var cached models.LLMModel
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	m, err := s.store.Models.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get model %q: %w", name, err)
	}
	s.cacheSet(ctx, key, m)
	return m, nil
}

func (s *Service) ListModels(ctx context.Context) ([]models.LLMModel, error) {
	var cached []models.LLMModel
	if s.cacheGet(ctx, keyAllModels, &cached) {
		return cached, nil
	}

	list, err := s.store.Models.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	s.cacheSet(ctx, keyAllModels, list)
	return list, nil
}

func (s *Service) ListByProvider(ctx context.Context, provider models.Provider) ([]models.LLMModel, error) {
	key := fmt.Sprintf(keyByProvider, provider)
	var cached []models.LLMModel
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	list, err := s.store.Models.ListByProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("list models for %s: %w", provider, err)
	}
	s.cacheSet(ctx, key, list)
	return list, nil
}

// cacheGet reports whether dest was populated. Cache failures are logged and
// treated as misses; the store stays the source of truth.
func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.redis == nil {
		return false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("catalog cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		s.logger.Warn("catalog cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
}
