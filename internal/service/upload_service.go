package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"docuchat-cli/internal/constant"
	"docuchat-cli/internal/pkg/logger"
	"docuchat-cli/pkg/api"
)

// allowedImageExtensions is the belt-and-suspenders check against spoofed
// MIME types: an image must both declare image/* and carry one of these
// extensions.
var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

const contentTypePDF = "application/pdf"

// FileUpload is one local file queued for upload. ContentType is the
// declared type; classification cross-checks it against the filename.
type FileUpload struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// NewFileUpload builds a FileUpload for a path on disk, declaring the
// type from the filename extension.
func NewFileUpload(path string) FileUpload {
	return FileUpload{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// FileFailure is one file that could not be uploaded, with the reason the
// user sees.
type FileFailure struct {
	Name   string
	Reason string
}

// BatchResult aggregates per-file outcomes of one upload batch.
type BatchResult struct {
	Succeeded int
	Failures  []FileFailure
}

// ValidationError rejects a whole batch before any network call is made.
type ValidationError struct {
	InvalidFiles []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid file type: %s (allowed: PDF, png, jpg, jpeg, gif, bmp, tiff, webp)",
		strings.Join(e.InvalidFiles, ", "))
}

// IUploadService validates a batch of local files, uploads them
// concurrently, and refreshes the document list once if anything landed.
type IUploadService interface {
	Upload(ctx context.Context, files []FileUpload) (*BatchResult, error)
}

type uploadService struct {
	remote    Remote
	documents IDocumentService
	log       logger.ILogger
}

func NewUploadService(remote Remote, documents IDocumentService, log logger.ILogger) IUploadService {
	return &uploadService{
		remote:    remote,
		documents: documents,
		log:       log,
	}
}

type fileKind int

const (
	kindInvalid fileKind = iota
	kindPDF
	kindImage
)

func classify(f FileUpload) fileKind {
	declared := f.ContentType
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = declared[:i]
	}
	declared = strings.TrimSpace(strings.ToLower(declared))

	if declared == contentTypePDF {
		return kindPDF
	}
	if strings.HasPrefix(declared, "image/") && allowedImageExtensions[strings.ToLower(filepath.Ext(f.Name))] {
		return kindImage
	}
	return kindInvalid
}

// Upload rejects the whole batch if any file is invalid (zero network
// calls), otherwise dispatches one upload per file concurrently, waits
// for all to settle, and refreshes the document list exactly once when at
// least one upload succeeded.
func (s *uploadService) Upload(ctx context.Context, files []FileUpload) (*BatchResult, error) {
	if len(files) == 0 {
		return &BatchResult{}, nil
	}

	// 1. Validate the whole batch up front.
	kinds := make([]fileKind, len(files))
	var invalid []string
	for i, f := range files {
		kinds[i] = classify(f)
		if kinds[i] == kindInvalid {
			invalid = append(invalid, f.Name)
		}
	}
	if len(invalid) > 0 {
		s.log.Warn("upload", "batch rejected", map[string]interface{}{"invalid_files": invalid})
		return nil, &ValidationError{InvalidFiles: invalid}
	}

	// 2. Dispatch all uploads concurrently and join on an all-settled
	// barrier, so the shared document list is refreshed once, not N times.
	type outcome struct {
		index int
		err   error
	}
	outcomes := make([]outcome, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f FileUpload, kind fileKind) {
			defer wg.Done()
			outcomes[i] = outcome{index: i, err: s.uploadOne(ctx, f, kind)}
		}(i, f, kinds[i])
	}
	wg.Wait()

	// 3. Partition outcomes.
	result := &BatchResult{}
	for _, oc := range outcomes {
		if oc.err == nil {
			result.Succeeded++
			continue
		}
		result.Failures = append(result.Failures, FileFailure{
			Name:   files[oc.index].Name,
			Reason: api.UserMessage(oc.err, constant.ErrGenericUpload),
		})
	}
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Name < result.Failures[j].Name
	})

	// 4. One refresh for the whole batch.
	if result.Succeeded > 0 {
		if err := s.documents.Refresh(ctx); err != nil {
			s.log.Warn("upload", "document refresh after upload failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.log.Info("upload", "batch settled", map[string]interface{}{
		"total":     len(files),
		"succeeded": result.Succeeded,
		"failed":    len(result.Failures),
	})
	return result, nil
}

func (s *uploadService) uploadOne(ctx context.Context, f FileUpload, kind fileKind) error {
	content, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer content.Close()

	switch kind {
	case kindPDF:
		_, err = s.remote.UploadPDF(ctx, f.Name, content)
	case kindImage:
		_, err = s.remote.UploadImage(ctx, f.Name, content)
	}
	return err
}
