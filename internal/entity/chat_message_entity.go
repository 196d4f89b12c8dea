package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id         uuid.UUID
	Role       string
	Content    string
	Timestamp  time.Time
	Sources    []Source
	Confidence string
}

// Source is a citation attached to an assistant message. Display-only,
// no identity beyond its position in the slice.
type Source struct {
	Source  string
	Content string
}
