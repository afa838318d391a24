package models

import "time"

// Conversation is a two-party thread. PartyA/PartyB keep the order the
// conversation was opened with; PairLow/PairHigh hold the same pair in
// canonical order and carry the uniqueness guarantee.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PartyA    uint      `gorm:"not null;index" json:"party_a"`
	PartyB    uint      `gorm:"not null;index" json:"party_b"`
	PairLow   uint      `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1" json:"-"`
	PairHigh  uint      `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func NewConversation(userA, userB uint, now time.Time) Conversation {
	low, high := CanonicalPair(userA, userB)
	return Conversation{
		PartyA:    userA,
		PartyB:    userB,
		PairLow:   low,
		PairHigh:  high,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanonicalPair orders two user ids so that (a, b) and (b, a) map to
// the same key.
func CanonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func (c Conversation) HasParty(userID uint) bool {
	return userID != 0 && (c.PartyA == userID || c.PartyB == userID)
}
