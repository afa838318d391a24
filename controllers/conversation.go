package controllers

import (
	"net/http"

	"DuoChat/middleware"
	"DuoChat/models"
	"DuoChat/pkg/services"
	utils "DuoChat/pkg/utills"

	"github.com/gin-gonic/gin"
)

// CreateConversation opens (or returns) the caller's conversation with
// user_id.
func CreateConversation(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			UserID uint `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.UserID == 0 {
			badRequest(c, "user_id is required")
			return
		}
		conv, err := core.Conversations.CreateOrGet(c.Request.Context(), middleware.CurrentUserID(c), body.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, conv)
	}
}

func ListConversations(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		convs, err := core.Conversations.ListForUser(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, convs)
	}
}

func SendMessage(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		convID, ok := utils.ParseID(c.Param("conversation_id"))
		if !ok {
			badRequest(c, "invalid conversation id")
			return
		}
		var body struct {
			Content string `json:"content"`
			Kind    string `json:"kind"`
			FileID  *uint  `json:"file_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid request")
			return
		}

		msg, err := core.Messages.Append(c.Request.Context(), services.SendMessageInput{
			ConversationID: convID,
			SenderID:       middleware.CurrentUserID(c),
			Content:        body.Content,
			Kind:           models.MessageKind(body.Kind),
			FileID:         body.FileID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, msg)
	}
}

func ListMessages(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		convID, ok := utils.ParseID(c.Param("conversation_id"))
		if !ok {
			badRequest(c, "invalid conversation id")
			return
		}
		limit, okLimit := utils.IntOr(c.Query("limit"), services.DefaultMessageLimit)
		offset, okOffset := utils.IntOr(c.Query("offset"), 0)
		if !okLimit || !okOffset {
			badRequest(c, "limit and offset must be integers")
			return
		}

		msgs, err := core.Messages.ListForViewer(c.Request.Context(), convID, middleware.CurrentUserID(c), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, msgs)
	}
}
