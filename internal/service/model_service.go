package service

import (
	"context"
	"time"

	"docuchat-cli/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

const modelsCacheKey = "models"

// ModelState is the backend's model catalogue plus the active model.
type ModelState struct {
	Available []string
	Current   string
}

// IModelService reads and switches the backend's answering model. The
// catalogue rarely changes, so reads are served from a TTL cache that a
// successful switch invalidates.
type IModelService interface {
	Models(ctx context.Context) (*ModelState, error)
	Change(ctx context.Context, modelName string) error
}

type modelService struct {
	remote Remote
	log    logger.ILogger
	cache  *gocache.Cache
}

func NewModelService(remote Remote, log logger.ILogger, ttl time.Duration) IModelService {
	return &modelService{
		remote: remote,
		log:    log,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (s *modelService) Models(ctx context.Context) (*ModelState, error) {
	if cached, ok := s.cache.Get(modelsCacheKey); ok {
		return cached.(*ModelState), nil
	}

	resp, err := s.remote.GetModels(ctx)
	if err != nil {
		s.log.Error("model", "fetch models failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	state := &ModelState{Available: resp.AvailableModels, Current: resp.CurrentModel}
	s.cache.SetDefault(modelsCacheKey, state)
	return state, nil
}

func (s *modelService) Change(ctx context.Context, modelName string) error {
	resp, err := s.remote.SetModel(ctx, modelName)
	if err != nil {
		s.log.Error("model", "set model failed", map[string]interface{}{"model": modelName, "error": err.Error()})
		return err
	}

	s.cache.Delete(modelsCacheKey)
	s.log.Info("model", "model changed", map[string]interface{}{"model": resp.CurrentModel})
	return nil
}
