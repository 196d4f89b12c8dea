package service

import (
	"context"
	"io"
	"sync"
	"time"

	"docuchat-cli/internal/constant"
	"docuchat-cli/internal/dto"
	"docuchat-cli/internal/entity"

	"github.com/google/uuid"
)

func userMessage(content string) entity.ChatMessage {
	return entity.ChatMessage{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeRemote counts calls per operation and delegates to optional
// function fields, so tests can assert exactly which network calls were
// made.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[string]int

	listDocumentsFn  func(ctx context.Context) ([]dto.DocumentResponse, error)
	deleteDocumentFn func(ctx context.Context, docId string) error
	uploadPDFFn      func(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error)
	uploadImageFn    func(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error)
	listSessionsFn   func(ctx context.Context) ([]dto.SessionSummaryResponse, error)
	createSessionFn  func(ctx context.Context) (*dto.CreateSessionResponse, error)
	getSessionFn     func(ctx context.Context, sessionId string) (*dto.GetSessionResponse, error)
	renameSessionFn  func(ctx context.Context, sessionId, title string) error
	deleteSessionFn  func(ctx context.Context, sessionId string) error
	exportSessionFn  func(ctx context.Context, sessionId string) (string, error)
	sendChatFn       func(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	getModelsFn      func(ctx context.Context) (*dto.ModelsResponse, error)
	setModelFn       func(ctx context.Context, modelName string) (*dto.SetModelResponse, error)
	clearAllDataFn   func(ctx context.Context) error
	healthFn         func(ctx context.Context) (*dto.HealthResponse, error)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{calls: make(map[string]int)}
}

func (f *fakeRemote) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeRemote) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeRemote) ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error) {
	f.count("ListDocuments")
	if f.listDocumentsFn != nil {
		return f.listDocumentsFn(ctx)
	}
	return nil, nil
}

func (f *fakeRemote) DeleteDocument(ctx context.Context, docId string) error {
	f.count("DeleteDocument")
	if f.deleteDocumentFn != nil {
		return f.deleteDocumentFn(ctx, docId)
	}
	return nil
}

func (f *fakeRemote) UploadPDF(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error) {
	f.count("UploadPDF")
	if f.uploadPDFFn != nil {
		return f.uploadPDFFn(ctx, filename, content)
	}
	return &dto.UploadResponse{DocumentId: "new", Filename: filename}, nil
}

func (f *fakeRemote) UploadImage(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error) {
	f.count("UploadImage")
	if f.uploadImageFn != nil {
		return f.uploadImageFn(ctx, filename, content)
	}
	return &dto.UploadResponse{DocumentId: "new", Filename: filename}, nil
}

func (f *fakeRemote) ListSessions(ctx context.Context) ([]dto.SessionSummaryResponse, error) {
	f.count("ListSessions")
	if f.listSessionsFn != nil {
		return f.listSessionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeRemote) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	f.count("CreateSession")
	if f.createSessionFn != nil {
		return f.createSessionFn(ctx)
	}
	return &dto.CreateSessionResponse{SessionId: "new-session"}, nil
}

func (f *fakeRemote) GetSession(ctx context.Context, sessionId string) (*dto.GetSessionResponse, error) {
	f.count("GetSession")
	if f.getSessionFn != nil {
		return f.getSessionFn(ctx, sessionId)
	}
	return &dto.GetSessionResponse{SessionId: sessionId}, nil
}

func (f *fakeRemote) RenameSession(ctx context.Context, sessionId, title string) error {
	f.count("RenameSession")
	if f.renameSessionFn != nil {
		return f.renameSessionFn(ctx, sessionId, title)
	}
	return nil
}

func (f *fakeRemote) DeleteSession(ctx context.Context, sessionId string) error {
	f.count("DeleteSession")
	if f.deleteSessionFn != nil {
		return f.deleteSessionFn(ctx, sessionId)
	}
	return nil
}

func (f *fakeRemote) ExportSession(ctx context.Context, sessionId string) (string, error) {
	f.count("ExportSession")
	if f.exportSessionFn != nil {
		return f.exportSessionFn(ctx, sessionId)
	}
	return "", nil
}

func (f *fakeRemote) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	f.count("SendChat")
	if f.sendChatFn != nil {
		return f.sendChatFn(ctx, req)
	}
	return &dto.SendChatResponse{Role: "assistant", Content: "ok"}, nil
}

func (f *fakeRemote) GetModels(ctx context.Context) (*dto.ModelsResponse, error) {
	f.count("GetModels")
	if f.getModelsFn != nil {
		return f.getModelsFn(ctx)
	}
	return &dto.ModelsResponse{}, nil
}

func (f *fakeRemote) SetModel(ctx context.Context, modelName string) (*dto.SetModelResponse, error) {
	f.count("SetModel")
	if f.setModelFn != nil {
		return f.setModelFn(ctx, modelName)
	}
	return &dto.SetModelResponse{CurrentModel: modelName}, nil
}

func (f *fakeRemote) ClearAllData(ctx context.Context) error {
	f.count("ClearAllData")
	if f.clearAllDataFn != nil {
		return f.clearAllDataFn(ctx)
	}
	return nil
}

func (f *fakeRemote) Health(ctx context.Context) (*dto.HealthResponse, error) {
	f.count("Health")
	if f.healthFn != nil {
		return f.healthFn(ctx)
	}
	return &dto.HealthResponse{Status: "healthy"}, nil
}
