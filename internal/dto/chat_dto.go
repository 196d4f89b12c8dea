package dto

import "time"

// SendChatRequest scopes a question to the active session and, optionally,
// a subset of documents. DocumentIds must be nil (not an empty slice) to
// mean "search all documents" — the backend treats null and [] differently.
type SendChatRequest struct {
	Message     string   `json:"message" validate:"required"`
	SessionId   string   `json:"session_id" validate:"required"`
	DocumentIds []string `json:"document_ids"`
}

// SendChatResponse is the assistant message itself, as stored server-side.
// Older backend builds used "answer" instead of "content"; both are accepted.
type SendChatResponse struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	Answer     string           `json:"answer"`
	Sources    []SourceResponse `json:"sources,omitempty"`
	Confidence string           `json:"confidence,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

type MessageResponse struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	Timestamp  time.Time        `json:"timestamp"`
	Sources    []SourceResponse `json:"sources,omitempty"`
	Confidence string           `json:"confidence,omitempty"`
}

type SourceResponse struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}
