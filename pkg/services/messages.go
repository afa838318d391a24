package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"DuoChat/models"
	"DuoChat/pkg/apperr"

	"gorm.io/gorm"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
)

type SendMessageInput struct {
	ConversationID uint
	SenderID       uint
	Content        string
	Kind           models.MessageKind
	FileID         *uint
}

// MessageLog appends to and pages through conversation history.
type MessageLog struct {
	db  *gorm.DB
	now func() time.Time
	log *slog.Logger
}

func NewMessageLog(db *gorm.DB, now func() time.Time, logger *slog.Logger) *MessageLog {
	return &MessageLog{db: db, now: now, log: logger.With("component", "messages")}
}

// Append stores a message and bumps the conversation's recency in the
// same transaction.
func (l *MessageLog) Append(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	kind := in.Kind
	if kind == "" {
		kind = models.MessageText
	}
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.Validation, "kind must be %q or %q", models.MessageText, models.MessageFile)
	}

	var msg models.Message
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.First(&conv, in.ConversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.ConversationNotFound)
			}
			return err
		}
		if !CanParticipate(in.SenderID, conv) {
			return apperr.New(apperr.SenderNotParticipant)
		}

		var fileID *uint
		if kind == models.MessageFile {
			if in.FileID == nil || *in.FileID == 0 {
				return apperr.New(apperr.MissingFileReference)
			}
			var n int64
			if err := tx.Model(&models.File{}).Where("id = ?", *in.FileID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return apperr.New(apperr.FileNotFound)
			}
			id := *in.FileID
			fileID = &id
		}

		now := l.now().UTC()
		msg = models.Message{
			ConversationID: conv.ID,
			SenderID:       in.SenderID,
			Content:        in.Content,
			Kind:           kind,
			FileID:         fileID,
			CreatedAt:      now,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		// Never move updated_at backwards if clocks disagree.
		return tx.Model(&models.Conversation{}).
			Where("id = ? AND updated_at < ?", conv.ID, now).
			UpdateColumn("updated_at", now).Error
	})
	if err != nil {
		return nil, storeError(l.log, "append message", err)
	}
	l.log.Debug("message appended", "conversation_id", msg.ConversationID, "message_id", msg.ID, "kind", msg.Kind)
	return &msg, nil
}

// ListForConversation returns a newest-first window of history. An
// unknown conversation yields an empty slice, not an error. limit is
// taken as given; callers apply DefaultMessageLimit when it is omitted.
func (l *MessageLog) ListForConversation(ctx context.Context, conversationID uint, limit, offset int) ([]models.Message, error) {
	if limit < 0 || offset < 0 {
		return nil, apperr.Newf(apperr.Validation, "limit and offset must be non-negative")
	}
	if limit > MaxMessageLimit {
		return nil, apperr.Newf(apperr.Validation, "limit must be <= %d", MaxMessageLimit)
	}

	msgs := []models.Message{}
	if limit == 0 {
		return msgs, nil
	}
	err := l.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, storeError(l.log, "list messages", err)
	}
	return msgs, nil
}

// ListForViewer is ListForConversation gated on the viewer being a
// party. Unknown conversations still yield an empty slice.
func (l *MessageLog) ListForViewer(ctx context.Context, conversationID, viewerID uint, limit, offset int) ([]models.Message, error) {
	var conv models.Conversation
	err := l.db.WithContext(ctx).First(&conv, conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, storeError(l.log, "load conversation", err)
	}
	if !CanParticipate(viewerID, conv) {
		return nil, apperr.New(apperr.AccessDenied)
	}
	return l.ListForConversation(ctx, conversationID, limit, offset)
}
