package models

import (
	"time"

	"github.com/google/uuid"
)

// Consultation represents an AI-assisted consultation session bound to one case.
type Consultation struct {
	ID        uuid.UUID             `json:"id"`
	CaseID    uuid.UUID             `json:"case_id"`
	Name      string                `json:"name"`
	AuthorID  uuid.UUID             `json:"author_id"`
	GroupID   *uuid.UUID            `json:"group_id"`
	CreatedAt time.Time             `json:"created_at"`
	Messages  []ConsultationMessage `json:"messages,omitempty"`
}

// ConsultationMessage is a single turn in a consultation. AuthorID is nil for
// messages written by the assistant; every other message belongs to a user.
// Messages are ordered by creation time ascending and that order is the
// canonical conversation order.
type ConsultationMessage struct {
	ID             uuid.UUID  `json:"id"`
	ConsultationID uuid.UUID  `json:"consultation_id"`
	AuthorID       *uuid.UUID `json:"author_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FromAssistant reports whether the message was written by the assistant.
func (m *ConsultationMessage) FromAssistant() bool {
	return m.AuthorID == nil
}
