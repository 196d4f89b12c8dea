package dto

import "time"

type DocumentResponse struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"` // absent for PDFs, "image" for OCR uploads
	ChunksCount int       `json:"chunks_count"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type UploadResponse struct {
	Message     string `json:"message"`
	DocumentId  string `json:"document_id"`
	ChunksCount int    `json:"chunks_count"`
	Filename    string `json:"filename"`
}
