package dto

import "time"

type SessionSummaryResponse struct {
	SessionId    string    `json:"session_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int       `json:"message_count"`
}

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}

// GetSessionResponse nests the detail under "session", matching the backend.
type GetSessionResponse struct {
	SessionId string        `json:"session_id"`
	Session   SessionDetail `json:"session"`
}

type SessionDetail struct {
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	Messages  []MessageResponse `json:"messages"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required"`
}

type ExportSessionResponse struct {
	ChatData string `json:"chat_data"`
}
