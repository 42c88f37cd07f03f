package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestedEvent is published after a tagpack commits, so downstream
// consumers (the web process, cache layers) can react to refreshed views.
type IngestedEvent struct {
	PackID      uuid.UUID `json:"packId"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Version     int       `json:"version"`
	TagCount    int       `json:"tagCount"`
	Identifiers []string  `json:"identifiers"`
	IngestedAt  time.Time `json:"ingestedAt"`
}
