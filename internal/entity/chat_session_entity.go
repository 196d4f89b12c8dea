package entity

import "time"

// ChatSessionSummary is the list-view shape of a session. The full message
// log is only held for the currently active session.
type ChatSessionSummary struct {
	Id           string
	Title        string
	CreatedAt    time.Time
	MessageCount int
}
