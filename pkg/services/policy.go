package services

import "DuoChat/models"

// CanParticipate reports whether userID is one of the conversation's
// two parties.
func CanParticipate(userID uint, conv models.Conversation) bool {
	return conv.HasParty(userID)
}

// CanAccessFile reports whether userID uploaded file or takes part in
// at least one of the conversations that reference it. referencing must
// contain only conversations holding a message with this file.
func CanAccessFile(userID uint, file models.File, referencing []models.Conversation) bool {
	if userID != 0 && file.UploadedBy == userID {
		return true
	}
	for _, conv := range referencing {
		if CanParticipate(userID, conv) {
			return true
		}
	}
	return false
}
