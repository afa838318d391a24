package conversation

import (
	"DuoChat/controllers"
	"DuoChat/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register registers conversation and message routes (protected)
func Register(g *gin.RouterGroup, core *services.Core) {
	g.POST("/conversations", controllers.CreateConversation(core))
	g.GET("/conversations", controllers.ListConversations(core))
	g.POST("/conversations/:conversation_id/messages", controllers.SendMessage(core))
	g.GET("/conversations/:conversation_id/messages", controllers.ListMessages(core))
}
