// Package api is the typed client for the chatbot backend's /api contract.
// Each method is a thin request/response mapping: no retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docuchat-cli/internal/dto"
)

const (
	// FieldPDF and FieldImage are the multipart field names the two upload
	// endpoints expect. They are not interchangeable.
	FieldPDF   = "pdf"
	FieldImage = "image"
)

type Client struct {
	baseURL string
	http    *http.Client
	uploads *http.Client
}

// NewClient builds a client for the backend at baseURL. Uploads get their
// own, more generous timeout since large PDFs take a while to ingest.
func NewClient(baseURL string, timeout, uploadTimeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		uploads: &http.Client{
			Timeout: uploadTimeout,
		},
	}
}

func (c *Client) ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error) {
	var out []dto.DocumentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents", nil, &out, "list documents"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteDocument(ctx context.Context, docId string) error {
	path := "/api/documents/" + url.PathEscape(docId)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, "delete document")
}

func (c *Client) ListSessions(ctx context.Context) ([]dto.SessionSummaryResponse, error) {
	var out []dto.SessionSummaryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions", nil, &out, "list sessions"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	var out dto.CreateSessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/sessions", nil, &out, "create session"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSession(ctx context.Context, sessionId string) (*dto.GetSessionResponse, error) {
	path := "/api/sessions/" + url.PathEscape(sessionId)
	var out dto.GetSessionResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, "get session"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameSession(ctx context.Context, sessionId, title string) error {
	path := "/api/sessions/" + url.PathEscape(sessionId)
	body := dto.RenameSessionRequest{Title: title}
	return c.doJSON(ctx, http.MethodPut, path, body, nil, "rename session")
}

func (c *Client) DeleteSession(ctx context.Context, sessionId string) error {
	path := "/api/sessions/" + url.PathEscape(sessionId)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, "delete session")
}

// ExportSession returns the session transcript as a flat text blob,
// formatted server-side.
func (c *Client) ExportSession(ctx context.Context, sessionId string) (string, error) {
	path := "/api/sessions/" + url.PathEscape(sessionId) + "/export"
	var out dto.ExportSessionResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, "export session"); err != nil {
		return "", err
	}
	return out.ChatData, nil
}

func (c *Client) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	var out dto.SendChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", req, &out, "chat"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetModels(ctx context.Context) (*dto.ModelsResponse, error) {
	var out dto.ModelsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/models", nil, &out, "list models"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetModel(ctx context.Context, modelName string) (*dto.SetModelResponse, error) {
	body := dto.SetModelRequest{ModelName: modelName}
	var out dto.SetModelResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/models", body, &out, "set model"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearAllData(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/clear", nil, nil, "clear data")
}

func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var out dto.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out, "health"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPDF posts one PDF to the document endpoint under the "pdf" field.
func (c *Client) UploadPDF(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error) {
	return c.upload(ctx, "/api/upload", FieldPDF, filename, content)
}

// UploadImage posts one image to the OCR endpoint under the "image" field.
func (c *Client) UploadImage(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error) {
	return c.upload(ctx, "/api/upload/image", FieldImage, filename, content)
}

func (c *Client) upload(ctx context.Context, path, field, filename string, content io.Reader) (*dto.UploadResponse, error) {
	op := "upload " + field

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("copy file content: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out dto.UploadResponse
	if err := c.sendWith(c.uploads, req, &out, op); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any, op string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RemoteError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.sendWith(c.http, req, out, op)
}

func (c *Client) sendWith(hc *http.Client, req *http.Request, out any, op string) error {
	resp, err := hc.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: serverMessage(bodyBytes)}
	}

	if out != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
		}
	}
	return nil
}

// serverMessage extracts the backend's {"error": "..."} field, if present.
func serverMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}
