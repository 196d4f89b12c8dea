package service

import (
	"context"
	"io"

	"docuchat-cli/internal/dto"
)

// Remote is the slice of the backend client the services use. Satisfied by
// *api.Client; narrowed here so services stay decoupled from transport
// details.
type Remote interface {
	ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, docId string) error
	UploadPDF(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error)
	UploadImage(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error)

	ListSessions(ctx context.Context) ([]dto.SessionSummaryResponse, error)
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.GetSessionResponse, error)
	RenameSession(ctx context.Context, sessionId, title string) error
	DeleteSession(ctx context.Context, sessionId string) error
	ExportSession(ctx context.Context, sessionId string) (string, error)

	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)

	GetModels(ctx context.Context) (*dto.ModelsResponse, error)
	SetModel(ctx context.Context, modelName string) (*dto.SetModelResponse, error)

	ClearAllData(ctx context.Context) error
	Health(ctx context.Context) (*dto.HealthResponse, error)
}
