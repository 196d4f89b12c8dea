package entity

import "time"

const (
	DocumentTypeDocument = "document"
	DocumentTypeImage    = "image"
)

// Document is an uploaded PDF or image, chunked server-side for retrieval.
// The id is an opaque backend-assigned string; ChunksCount is metadata only.
type Document struct {
	Id          string
	Name        string
	Type        string
	ChunksCount int
	UploadedAt  time.Time
}
