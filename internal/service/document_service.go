package service

import (
	"context"
	"sync"

	"docuchat-cli/internal/entity"
	"docuchat-cli/internal/mapper"
	"docuchat-cli/internal/pkg/logger"
)

// IDocumentService owns the uploaded-document list and the selection set
// used to scope chat queries. The selection is invariantly a subset of the
// known document ids.
type IDocumentService interface {
	Refresh(ctx context.Context) error
	Documents() []entity.Document
	Toggle(docId string)
	ToggleAll()
	Selection() []string
	IsSelected(docId string) bool
	ClearSelection()
	Delete(ctx context.Context, docId string) error
	IsPendingDelete(docId string) bool
	Reset()
}

type documentService struct {
	remote Remote
	log    logger.ILogger
	mapper *mapper.DocumentMapper

	mu            sync.Mutex
	documents     []entity.Document
	selected      map[string]struct{}
	pendingDelete map[string]bool
}

func NewDocumentService(remote Remote, log logger.ILogger) IDocumentService {
	return &documentService{
		remote:        remote,
		log:           log,
		mapper:        mapper.NewDocumentMapper(),
		selected:      make(map[string]struct{}),
		pendingDelete: make(map[string]bool),
	}
}

// Refresh replaces the document list with server truth and prunes any
// selected ids that no longer exist.
func (s *documentService) Refresh(ctx context.Context) error {
	resp, err := s.remote.ListDocuments(ctx)
	if err != nil {
		s.log.Error("document", "refresh failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = s.mapper.ToEntities(resp)

	known := make(map[string]struct{}, len(s.documents))
	for _, doc := range s.documents {
		known[doc.Id] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := known[id]; !ok {
			delete(s.selected, id)
		}
	}
	return nil
}

func (s *documentService) Documents() []entity.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// Toggle flips membership of one id in the selection set.
func (s *documentService) Toggle(docId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.knownLocked(docId) {
		return
	}
	if _, ok := s.selected[docId]; ok {
		delete(s.selected, docId)
	} else {
		s.selected[docId] = struct{}{}
	}
}

// ToggleAll is the single select-all/none affordance: clears when every
// document is already selected, otherwise selects all of them.
func (s *documentService) ToggleAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == len(s.documents) && len(s.documents) > 0 {
		s.selected = make(map[string]struct{})
		return
	}
	for _, doc := range s.documents {
		s.selected[doc.Id] = struct{}{}
	}
}

// Selection returns the selected ids in document-list order. Empty
// selection returns nil, which downstream encodes as "search everything".
func (s *documentService) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.selected))
	for _, doc := range s.documents {
		if _, ok := s.selected[doc.Id]; ok {
			out = append(out, doc.Id)
		}
	}
	return out
}

func (s *documentService) IsSelected(docId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[docId]
	return ok
}

func (s *documentService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// Delete removes the id from the selection immediately (optimistic) and
// then issues the remote delete. On failure the document stays listed and
// the selection removal is intentionally not rolled back.
func (s *documentService) Delete(ctx context.Context, docId string) error {
	s.mu.Lock()
	s.pendingDelete[docId] = true
	delete(s.selected, docId)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pendingDelete, docId)
		s.mu.Unlock()
	}()

	if err := s.remote.DeleteDocument(ctx, docId); err != nil {
		s.log.Error("document", "delete failed", map[string]interface{}{"doc_id": docId, "error": err.Error()})
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.documents[:0]
	for _, doc := range s.documents {
		if doc.Id != docId {
			kept = append(kept, doc)
		}
	}
	s.documents = kept
	s.log.Info("document", "deleted document", map[string]interface{}{"doc_id": docId})
	return nil
}

func (s *documentService) IsPendingDelete(docId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete[docId]
}

// Reset drops all local document state. Used after a backend-wide clear.
func (s *documentService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
	s.selected = make(map[string]struct{})
	s.pendingDelete = make(map[string]bool)
}

func (s *documentService) knownLocked(docId string) bool {
	for _, doc := range s.documents {
		if doc.Id == docId {
			return true
		}
	}
	return false
}
