package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"docuchat-cli/internal/constant"
	"docuchat-cli/internal/dto"
	"docuchat-cli/internal/entity"
	"docuchat-cli/internal/mapper"
	"docuchat-cli/internal/pkg/logger"
	"docuchat-cli/pkg/api"

	"github.com/google/uuid"
)

var (
	// ErrEmptyMessage and ErrBusy are guard results: the send was refused
	// before any state change and the caller can treat them as no-ops.
	ErrEmptyMessage = errors.New("empty message")
	ErrBusy         = errors.New("a chat request is already in flight")
)

// IChatService turns user input into transcript entries. Remote failures
// are swallowed into the transcript as assistant messages rather than
// surfaced as alerts, so the chat stays readable.
type IChatService interface {
	Send(ctx context.Context, input string) error
	InFlight() bool
}

type chatService struct {
	remote    Remote
	sessions  ISessionService
	documents IDocumentService
	log       logger.ILogger
	mapper    *mapper.ChatMapper

	mu       sync.Mutex
	inFlight bool
}

func NewChatService(remote Remote, sessions ISessionService, documents IDocumentService, log logger.ILogger) IChatService {
	return &chatService{
		remote:    remote,
		sessions:  sessions,
		documents: documents,
		log:       log,
		mapper:    mapper.NewChatMapper(),
	}
}

func (s *chatService) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Send appends an optimistic user message, issues the chat call scoped to
// the current selection, and appends the reply. The optimistic message is
// never reconciled against a server copy. Guard failures happen before
// any state change.
func (s *chatService) Send(ctx context.Context, input string) error {
	message := strings.TrimSpace(input)
	if message == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	sessionId := s.sessions.ActiveId()
	if sessionId == "" {
		return ErrNoActiveSession
	}

	s.sessions.AppendMessage(entity.ChatMessage{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleUser,
		Content:   message,
		Timestamp: time.Now().UTC(),
	})

	// An empty selection means "search all documents": nil serializes to
	// null, which the backend treats differently from [].
	req := &dto.SendChatRequest{
		Message:     message,
		SessionId:   sessionId,
		DocumentIds: s.documents.Selection(),
	}

	resp, err := s.remote.SendChat(ctx, req)
	if err != nil {
		s.log.Error("chat", "send failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		s.sessions.AppendMessage(entity.ChatMessage{
			Id:         uuid.New(),
			Role:       constant.ChatMessageRoleAssistant,
			Content:    api.UserMessage(err, constant.ErrGenericChat),
			Timestamp:  time.Now().UTC(),
			Confidence: constant.ConfidenceUnknown,
		})
		return nil
	}

	s.sessions.AppendMessage(s.mapper.ChatResponseToEntity(resp))
	s.log.Info("chat", "received reply", map[string]interface{}{
		"session_id": sessionId,
		"sources":    len(resp.Sources),
		"confidence": resp.Confidence,
	})
	return nil
}
