package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"docuchat-cli/internal/bootstrap"
	"docuchat-cli/internal/config"
	"docuchat-cli/internal/tui"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(context.Background(), cfg)
	defer container.Logger.Sync()

	// 3. Run the Interface
	model := tui.New(tui.Deps{
		Documents: container.DocumentService,
		Sessions:  container.SessionService,
		Chat:      container.ChatService,
		Uploads:   container.UploadService,
		Models:    container.ModelService,
		System:    container.SystemService,
		Speech:    container.Speech,
		Log:       container.Logger,
		Backend:   cfg.Backend.BaseURL,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running interface: %v\n", err)
		os.Exit(1)
	}
}
