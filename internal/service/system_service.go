package service

import (
	"context"

	"docuchat-cli/internal/pkg/logger"
)

// ISystemService covers backend-wide operations: the health probe and the
// admin wipe.
type ISystemService interface {
	Health(ctx context.Context) error
	ClearAllData(ctx context.Context) error
}

type systemService struct {
	remote    Remote
	sessions  ISessionService
	documents IDocumentService
	log       logger.ILogger
}

func NewSystemService(remote Remote, sessions ISessionService, documents IDocumentService, log logger.ILogger) ISystemService {
	return &systemService{
		remote:    remote,
		sessions:  sessions,
		documents: documents,
		log:       log,
	}
}

func (s *systemService) Health(ctx context.Context) error {
	if _, err := s.remote.Health(ctx); err != nil {
		s.log.Warn("system", "health check failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}

// ClearAllData wipes everything server-side, then resets every local
// store so no stale document, selection or session survives.
func (s *systemService) ClearAllData(ctx context.Context) error {
	if err := s.remote.ClearAllData(ctx); err != nil {
		s.log.Error("system", "clear all data failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	s.documents.Reset()
	s.sessions.Reset()
	s.log.Info("system", "cleared all backend data", nil)
	return nil
}
