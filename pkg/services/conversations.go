package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"DuoChat/models"
	"DuoChat/pkg/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRegistry owns the one-conversation-per-pair invariant.
type ConversationRegistry struct {
	db  *gorm.DB
	now func() time.Time
	log *slog.Logger
}

func NewConversationRegistry(db *gorm.DB, now func() time.Time, logger *slog.Logger) *ConversationRegistry {
	return &ConversationRegistry{db: db, now: now, log: logger.With("component", "conversations")}
}

// CreateOrGet returns the conversation between userA and userB,
// creating it with PartyA=userA, PartyB=userB if none exists. Safe to
// call concurrently for the same pair: the canonical-pair unique index
// rejects the second insert and the loser reads the winner's row.
func (r *ConversationRegistry) CreateOrGet(ctx context.Context, userA, userB uint) (*models.Conversation, error) {
	if userA == userB {
		return nil, apperr.New(apperr.SelfConversation)
	}
	db := r.db.WithContext(ctx)

	var matched int64
	if err := db.Model(&models.User{}).Where("id IN ?", []uint{userA, userB}).Count(&matched).Error; err != nil {
		return nil, storeError(r.log, "count users", err)
	}
	if matched != 2 {
		return nil, apperr.New(apperr.UnknownUser)
	}

	existing, err := r.findPair(db, userA, userB)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(r.log, "find conversation", err)
	}

	conv := models.NewConversation(userA, userB, r.now())
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, storeError(r.log, "create conversation", res.Error)
	}
	if res.Error == nil && res.RowsAffected == 1 && conv.ID != 0 {
		r.log.Info("conversation created", "conversation_id", conv.ID, "party_a", userA, "party_b", userB)
		return &conv, nil
	}

	// Someone else inserted the pair between our lookup and insert.
	winner, err := r.findPair(db, userA, userB)
	if err != nil {
		return nil, storeError(r.log, "find conversation after conflict", err)
	}
	return winner, nil
}

// Get returns a conversation by id.
func (r *ConversationRegistry) Get(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.ConversationNotFound)
	}
	if err != nil {
		return nil, storeError(r.log, "get conversation", err)
	}
	return &conv, nil
}

// ListForUser returns every conversation userID takes part in, most
// recently active first.
func (r *ConversationRegistry) ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	convs := []models.Conversation{}
	err := r.db.WithContext(ctx).
		Where("party_a = ? OR party_b = ?", userID, userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&convs).Error
	if err != nil {
		return nil, storeError(r.log, "list conversations", err)
	}
	return convs, nil
}

func (r *ConversationRegistry) findPair(db *gorm.DB, userA, userB uint) (*models.Conversation, error) {
	low, high := models.CanonicalPair(userA, userB)
	var conv models.Conversation
	if err := db.Where("pair_low = ? AND pair_high = ?", low, high).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}
