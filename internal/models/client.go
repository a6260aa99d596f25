// Package models defines data structures used throughout the application.
package models

import "strings"

// Status is the lifecycle state of a client in the queue.
type Status string

const (
	// StatusPending marks a client still waiting to be contacted.
	StatusPending Status = "pending"
	// StatusCalled marks a client that has already been contacted.
	StatusCalled Status = "called"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCalled
}

// Client represents one record in the waiting queue.
//
// CreatedAt and CalledAt are epoch milliseconds. CalledAt is set exactly once,
// at the pending -> called transition. TestDurationMs, when present, overrides
// the global overdue threshold for this record only.
type Client struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Phone          string `db:"phone" json:"phone"`
	CreatedAt      int64  `db:"created_at" json:"created_at"`
	Status         Status `db:"status" json:"status"`
	CalledAt       *int64 `db:"called_at" json:"called_at,omitempty"`
	TestDurationMs *int64 `db:"test_duration_ms" json:"test_duration_ms,omitempty"`
	IboUpdated     bool   `db:"ibo_updated" json:"ibo_updated"`
}

// Settings holds the admin-editable application settings.
type Settings struct {
	WhatsappMessage string `json:"whatsapp_message"`
}

// DefaultWhatsappMessage is used until an admin saves a custom template.
const DefaultWhatsappMessage = "Olá {nome}, tudo bem? Sou da equipe de atendimento e estou entrando em contato."

// DefaultSettings returns the settings applied on first run.
func DefaultSettings() Settings {
	return Settings{WhatsappMessage: DefaultWhatsappMessage}
}

// Digits strips every non-digit rune from s. Phone numbers are normalized
// with this before storage and comparison.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
