package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"docuchat-cli/internal/config"
	"docuchat-cli/pkg/api"
)

// docctl is the scripting companion to the chat interface: one backend
// operation per invocation, colored output, non-zero exit on failure.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}
	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, cfg.Backend.UploadTimeout)
	ctx := context.Background()

	switch os.Args[1] {
	case "health":
		resp, err := client.Health(ctx)
		fail(err)
		color.Green("Status: %s (%s)", resp.Status, resp.Service)

	case "docs":
		docs, err := client.ListDocuments(ctx)
		fail(err)
		if len(docs) == 0 {
			color.Yellow("No documents uploaded yet.")
			return
		}
		for _, d := range docs {
			fmt.Printf("%s  %-8s %4d chunks  %s\n", d.Id, d.Type, d.ChunksCount, d.Name)
		}

	case "sessions":
		sessions, err := client.ListSessions(ctx)
		fail(err)
		if len(sessions) == 0 {
			color.Yellow("No chat sessions yet.")
			return
		}
		for _, s := range sessions {
			fmt.Printf("%s  %3d msgs  %s\n", s.SessionId, s.MessageCount, s.Title)
		}

	case "upload":
		if len(os.Args) < 3 {
			color.Red("Usage: docctl upload <file>...")
			os.Exit(1)
		}
		failed := false
		for _, path := range os.Args[2:] {
			if err := uploadOne(ctx, client, path); err != nil {
				color.Red("  %s: %v", filepath.Base(path), err)
				failed = true
			} else {
				color.Green("  %s uploaded", filepath.Base(path))
			}
		}
		if failed {
			os.Exit(1)
		}

	case "export":
		if len(os.Args) < 3 {
			color.Red("Usage: docctl export <session-id>")
			os.Exit(1)
		}
		data, err := client.ExportSession(ctx, os.Args[2])
		fail(err)
		fmt.Print(data)

	case "models":
		resp, err := client.GetModels(ctx)
		fail(err)
		for _, name := range resp.AvailableModels {
			marker := " "
			if name == resp.CurrentModel {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}

	case "set-model":
		if len(os.Args) < 3 {
			color.Red("Usage: docctl set-model <name>")
			os.Exit(1)
		}
		_, err := client.SetModel(ctx, os.Args[2])
		fail(err)
		color.Green("Model switched to %s", os.Args[2])

	case "clear":
		if len(os.Args) < 3 || os.Args[2] != "--yes" {
			color.Red("This deletes ALL documents and chats. Re-run with: docctl clear --yes")
			os.Exit(1)
		}
		fail(client.ClearAllData(ctx))
		color.Green("All documents and chats cleared.")

	default:
		usage()
		os.Exit(1)
	}
}

func uploadOne(ctx context.Context, client *api.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		_, err = client.UploadPDF(ctx, name, f)
	} else {
		_, err = client.UploadImage(ctx, name, f)
	}
	return err
}

func fail(err error) {
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: docctl <command>

Commands:
  health              Backend status and counts
  docs                List uploaded documents
  sessions            List chat sessions
  upload <file>...    Upload PDFs or images
  export <id>         Print a session transcript
  models              List answering models
  set-model <name>    Switch the answering model
  clear --yes         Delete all documents and chats`)
}
