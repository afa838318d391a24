package models

import (
	"time"
)

type MessageKind string

const (
	MessageText MessageKind = "text"
	MessageFile MessageKind = "file"
)

func (k MessageKind) Valid() bool {
	return k == MessageText || k == MessageFile
}

// Message is append-only. History is ordered by CreatedAt, then ID.
type Message struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	ConversationID uint        `gorm:"not null;index:idx_message_history,priority:1" json:"conversation_id"`
	SenderID       uint        `gorm:"not null;index" json:"sender_id"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	Kind           MessageKind `gorm:"size:10;not null;default:text" json:"kind"`
	FileID         *uint       `gorm:"index" json:"file_id"`
	CreatedAt      time.Time   `gorm:"index:idx_message_history,priority:2" json:"created_at"`
}
