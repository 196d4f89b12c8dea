package bootstrap

import (
	"context"

	"docuchat-cli/internal/config"
	"docuchat-cli/internal/pkg/logger"
	"docuchat-cli/internal/service"
	"docuchat-cli/pkg/api"
	"docuchat-cli/pkg/speech"
)

// Container wires the whole dependency graph once at startup.
type Container struct {
	Config *config.Config
	Logger logger.ILogger
	Client *api.Client

	// State stores and orchestration
	DocumentService service.IDocumentService
	SessionService  service.ISessionService
	ChatService     service.IChatService
	UploadService   service.IUploadService
	ModelService    service.IModelService
	SystemService   service.ISystemService

	// Optional voice layer
	Speech *speech.Bridge
}

func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, cfg.Backend.UploadTimeout)

	// 2. State Stores
	documentService := service.NewDocumentService(client, sysLogger)
	sessionService := service.NewSessionService(client, documentService, sysLogger, cfg.App.ExportDir)

	// 3. Orchestration Services
	chatService := service.NewChatService(client, sessionService, documentService, sysLogger)
	uploadService := service.NewUploadService(client, documentService, sysLogger)
	modelService := service.NewModelService(client, sysLogger, cfg.Backend.ModelCacheTTL)
	systemService := service.NewSystemService(client, sessionService, documentService, sysLogger)

	// 4. Voice Layer (degrades to unavailable when audio is missing)
	bridge := &speech.Bridge{
		Recognizer:  speech.NewGCPRecognizer(ctx, cfg.Speech, sysLogger),
		Synthesizer: speech.NewCommandSynthesizer(cfg.Speech, sysLogger),
	}

	return &Container{
		Config:          cfg,
		Logger:          sysLogger,
		Client:          client,
		DocumentService: documentService,
		SessionService:  sessionService,
		ChatService:     chatService,
		UploadService:   uploadService,
		ModelService:    modelService,
		SystemService:   systemService,
		Speech:          bridge,
	}
}
