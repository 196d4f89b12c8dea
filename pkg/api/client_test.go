package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docuchat-cli/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second, 5*time.Second), srv
}

func TestListDocuments(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/documents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"d1","name":"report.pdf","chunks_count":12},{"id":"d2","name":"scan.png","type":"image","chunks_count":3}]`)
	})
	defer srv.Close()

	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].Id)
	assert.Equal(t, "", docs[0].Type)
	assert.Equal(t, "image", docs[1].Type)
	assert.Equal(t, 3, docs[1].ChunksCount)
}

func TestSendChatEncodesNilDocumentIdsAsNull(t *testing.T) {
	var rawBody string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rawBody = string(body)
		io.WriteString(w, `{"role":"assistant","content":"X is...","confidence":"high"}`)
	})
	defer srv.Close()

	resp, err := client.SendChat(context.Background(), &dto.SendChatRequest{
		Message:     "What is X?",
		SessionId:   "s1",
		DocumentIds: nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "X is...", resp.Content)

	// The backend distinguishes null (search everything) from [] (match
	// nothing), so nil must serialize as null.
	assert.Contains(t, rawBody, `"document_ids":null`)
	assert.NotContains(t, rawBody, `"document_ids":[]`)
}

func TestSendChatEncodesSelectionAsList(t *testing.T) {
	var req dto.SendChatRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		io.WriteString(w, `{"content":"ok"}`)
	})
	defer srv.Close()

	_, err := client.SendChat(context.Background(), &dto.SendChatRequest{
		Message:     "scoped",
		SessionId:   "s1",
		DocumentIds: []string{"d1", "d2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, req.DocumentIds)
}

func TestRemoteErrorCarriesServerMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"Session not found"}`)
	})
	defer srv.Close()

	_, err := client.GetSession(context.Background(), "missing")
	require.Error(t, err)

	re, ok := err.(*RemoteError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "Session not found", re.Message)
	assert.Equal(t, "Session not found", UserMessage(err, "generic"))
}

func TestRemoteErrorWithoutServerMessageFallsBack(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream blew up")
	})
	defer srv.Close()

	err := client.DeleteSession(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, "generic failure", UserMessage(err, "generic failure"))
}

func TestUploadPDFUsesPdfField(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile(FieldPDF)
		require.NoError(t, err)
		defer file.Close()

		content, _ := io.ReadAll(file)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message":"ok","document_id":"d9","chunks_count":4,"filename":"report.pdf"}`)
	})
	defer srv.Close()

	resp, err := client.UploadPDF(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "d9", resp.DocumentId)
	assert.Equal(t, 4, resp.ChunksCount)
}

func TestUploadImageUsesImageField(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		_, _, err := r.FormFile(FieldImage)
		require.NoError(t, err)

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message":"ok","document_id":"img1","chunks_count":1,"filename":"scan.png"}`)
	})
	defer srv.Close()

	resp, err := client.UploadImage(context.Background(), "scan.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "img1", resp.DocumentId)
}

func TestExportSession(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/s1/export", r.URL.Path)
		io.WriteString(w, `{"chat_data":"User: hi\n\nAssistant: hello"}`)
	})
	defer srv.Close()

	blob, err := client.ExportSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "User: hi\n\nAssistant: hello", blob)
}

func TestRenameSessionSendsTitle(t *testing.T) {
	var req dto.RenameSessionRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		io.WriteString(w, `{"message":"Session renamed successfully"}`)
	})
	defer srv.Close()

	require.NoError(t, client.RenameSession(context.Background(), "s1", "Quarterly report"))
	assert.Equal(t, "Quarterly report", req.Title)
}

func TestGetModels(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"available_models":["gemini-pro","gemini-flash"],"current_model":"gemini-pro"}`)
	})
	defer srv.Close()

	models, err := client.GetModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-pro", "gemini-flash"}, models.AvailableModels)
	assert.Equal(t, "gemini-pro", models.CurrentModel)
}
