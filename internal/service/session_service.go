package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"docuchat-cli/internal/entity"
	"docuchat-cli/internal/mapper"
	"docuchat-cli/internal/pkg/logger"
)

// ErrNoActiveSession guards operations that only make sense with a loaded
// session (export, chat). No network call happens when it is returned.
var ErrNoActiveSession = errors.New("no active session")

// ExportResult describes the file produced by a successful export.
type ExportResult struct {
	SessionId string
	Path      string
}

// ISessionService holds the session list, the active session id and its
// message log. At most one session is active at a time; deleting the
// active session returns the store to the none-active state.
type ISessionService interface {
	Refresh(ctx context.Context) error
	Sessions() []entity.ChatSessionSummary
	ActiveId() string
	Messages() []entity.ChatMessage
	Create(ctx context.Context) (string, error)
	Load(ctx context.Context, sessionId string) error
	Rename(ctx context.Context, sessionId, newTitle string) (bool, error)
	Delete(ctx context.Context, sessionId string) error
	IsPendingDelete(sessionId string) bool
	AppendMessage(msg entity.ChatMessage)
	ClearMessages()
	Export(ctx context.Context) (*ExportResult, error)
	Reset()
}

type sessionService struct {
	remote    Remote
	log       logger.ILogger
	mapper    *mapper.ChatMapper
	selection interface{ ClearSelection() }
	exportDir string

	mu            sync.Mutex
	sessions      []entity.ChatSessionSummary
	activeId      string
	messages      []entity.ChatMessage
	pendingDelete map[string]bool
}

func NewSessionService(remote Remote, documents IDocumentService, log logger.ILogger, exportDir string) ISessionService {
	return &sessionService{
		remote:        remote,
		log:           log,
		mapper:        mapper.NewChatMapper(),
		selection:     documents,
		exportDir:     exportDir,
		pendingDelete: make(map[string]bool),
	}
}

func (s *sessionService) Refresh(ctx context.Context) error {
	resp, err := s.remote.ListSessions(ctx)
	if err != nil {
		s.log.Error("session", "refresh failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = s.mapper.SessionSummariesToEntity(resp)
	return nil
}

func (s *sessionService) Sessions() []entity.ChatSessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ChatSessionSummary, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func (s *sessionService) ActiveId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeId
}

func (s *sessionService) Messages() []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Create makes a new remote session, activates it with an empty message
// log and a cleared document selection, then refreshes the session list.
func (s *sessionService) Create(ctx context.Context) (string, error) {
	resp, err := s.remote.CreateSession(ctx)
	if err != nil {
		s.log.Error("session", "create failed", map[string]interface{}{"error": err.Error()})
		return "", err
	}

	s.mu.Lock()
	s.activeId = resp.SessionId
	s.messages = nil
	s.mu.Unlock()
	s.selection.ClearSelection()

	if err := s.Refresh(ctx); err != nil {
		// The session exists and is active; a stale list is tolerable.
		s.log.Warn("session", "list refresh after create failed", map[string]interface{}{"error": err.Error()})
	}

	s.log.Info("session", "created session", map[string]interface{}{"session_id": resp.SessionId})
	return resp.SessionId, nil
}

// Load fetches a session's history and makes it active, replacing (not
// merging) the message log and resetting the document selection. On
// failure the previously active session is left untouched.
func (s *sessionService) Load(ctx context.Context, sessionId string) error {
	resp, err := s.remote.GetSession(ctx, sessionId)
	if err != nil {
		s.log.Error("session", "load failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		return err
	}

	s.mu.Lock()
	s.activeId = sessionId
	s.messages = s.mapper.MessagesToEntity(resp.Session.Messages)
	s.mu.Unlock()
	s.selection.ClearSelection()

	s.log.Info("session", "loaded session", map[string]interface{}{
		"session_id": sessionId,
		"messages":   len(resp.Session.Messages),
	})
	return nil
}

// Rename is a guarded no-op: nothing is sent when the trimmed title is
// empty or unchanged. On success the list entry is patched in place,
// without a full refetch. The bool reports whether a call was made.
func (s *sessionService) Rename(ctx context.Context, sessionId, newTitle string) (bool, error) {
	title := strings.TrimSpace(newTitle)
	if title == "" {
		return false, nil
	}

	s.mu.Lock()
	current := ""
	for _, sess := range s.sessions {
		if sess.Id == sessionId {
			current = sess.Title
			break
		}
	}
	s.mu.Unlock()
	if title == current {
		return false, nil
	}

	if err := s.remote.RenameSession(ctx, sessionId, title); err != nil {
		s.log.Error("session", "rename failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		return true, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].Id == sessionId {
			s.sessions[i].Title = title
			break
		}
	}
	return true, nil
}

// Delete removes a session remotely. Deleting the active session resets
// the store to none-active with an empty message log. The pending flag is
// cleared whether the call succeeds or fails.
func (s *sessionService) Delete(ctx context.Context, sessionId string) error {
	s.mu.Lock()
	s.pendingDelete[sessionId] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pendingDelete, sessionId)
		s.mu.Unlock()
	}()

	if err := s.remote.DeleteSession(ctx, sessionId); err != nil {
		s.log.Error("session", "delete failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.Id != sessionId {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept
	if s.activeId == sessionId {
		s.activeId = ""
		s.messages = nil
	}
	s.log.Info("session", "deleted session", map[string]interface{}{"session_id": sessionId})
	return nil
}

func (s *sessionService) IsPendingDelete(sessionId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete[sessionId]
}

func (s *sessionService) AppendMessage(msg entity.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// ClearMessages empties the client-visible log only. The backend keeps the
// history, so reloading the session brings the messages back. Known
// limitation, not a bug.
func (s *sessionService) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Export fetches the transcript blob for the active session and writes it
// to a file named after the first 8 characters of the session id. The file
// is only created once the whole blob has been fetched.
func (s *sessionService) Export(ctx context.Context) (*ExportResult, error) {
	s.mu.Lock()
	sessionId := s.activeId
	s.mu.Unlock()
	if sessionId == "" {
		return nil, ErrNoActiveSession
	}

	blob, err := s.remote.ExportSession(ctx, sessionId)
	if err != nil {
		s.log.Error("session", "export failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		return nil, err
	}

	shortId := sessionId
	if len(shortId) > 8 {
		shortId = shortId[:8]
	}
	path := filepath.Join(s.exportDir, fmt.Sprintf("chat_export_%s.txt", shortId))
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		s.log.Error("session", "export write failed", map[string]interface{}{"path": path, "error": err.Error()})
		return nil, fmt.Errorf("write export file: %w", err)
	}

	s.log.Info("session", "exported session", map[string]interface{}{"session_id": sessionId, "path": path})
	return &ExportResult{SessionId: sessionId, Path: path}, nil
}

// Reset drops all local session state. Used after a backend-wide clear.
func (s *sessionService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	s.activeId = ""
	s.messages = nil
	s.pendingDelete = make(map[string]bool)
}
