package mapper

import (
	"docuchat-cli/internal/dto"
	"docuchat-cli/internal/entity"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(r dto.DocumentResponse) entity.Document {
	// PDFs predate the type field on the backend; absent means document.
	docType := r.Type
	if docType == "" {
		docType = entity.DocumentTypeDocument
	}
	return entity.Document{
		Id:          r.Id,
		Name:        r.Name,
		Type:        docType,
		ChunksCount: r.ChunksCount,
		UploadedAt:  r.UploadedAt,
	}
}

func (m *DocumentMapper) ToEntities(rs []dto.DocumentResponse) []entity.Document {
	out := make([]entity.Document, 0, len(rs))
	for _, r := range rs {
		out = append(out, m.ToEntity(r))
	}
	return out
}
