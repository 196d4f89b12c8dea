package mapper

import (
	"time"

	"docuchat-cli/internal/constant"
	"docuchat-cli/internal/dto"
	"docuchat-cli/internal/entity"

	"github.com/google/uuid"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) MessageToEntity(r dto.MessageResponse) entity.ChatMessage {
	return entity.ChatMessage{
		Id:         uuid.New(),
		Role:       r.Role,
		Content:    r.Content,
		Timestamp:  r.Timestamp,
		Sources:    m.SourcesToEntity(r.Sources),
		Confidence: r.Confidence,
	}
}

func (m *ChatMapper) MessagesToEntity(rs []dto.MessageResponse) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(rs))
	for _, r := range rs {
		out = append(out, m.MessageToEntity(r))
	}
	return out
}

// ChatResponseToEntity builds the assistant message from a chat reply.
// Older backends answer in "answer" rather than "content".
func (m *ChatMapper) ChatResponseToEntity(r *dto.SendChatResponse) entity.ChatMessage {
	content := r.Content
	if content == "" {
		content = r.Answer
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	confidence := r.Confidence
	if confidence == "" {
		confidence = constant.ConfidenceUnknown
	}
	return entity.ChatMessage{
		Id:         uuid.New(),
		Role:       constant.ChatMessageRoleAssistant,
		Content:    content,
		Timestamp:  ts,
		Sources:    m.SourcesToEntity(r.Sources),
		Confidence: confidence,
	}
}

func (m *ChatMapper) SourcesToEntity(rs []dto.SourceResponse) []entity.Source {
	if len(rs) == 0 {
		return nil
	}
	out := make([]entity.Source, 0, len(rs))
	for _, r := range rs {
		out = append(out, entity.Source{Source: r.Source, Content: r.Content})
	}
	return out
}

func (m *ChatMapper) SessionSummaryToEntity(r dto.SessionSummaryResponse) entity.ChatSessionSummary {
	return entity.ChatSessionSummary{
		Id:           r.SessionId,
		Title:        r.Title,
		CreatedAt:    r.CreatedAt,
		MessageCount: r.MessageCount,
	}
}

func (m *ChatMapper) SessionSummariesToEntity(rs []dto.SessionSummaryResponse) []entity.ChatSessionSummary {
	out := make([]entity.ChatSessionSummary, 0, len(rs))
	for _, r := range rs {
		out = append(out, m.SessionSummaryToEntity(r))
	}
	return out
}
