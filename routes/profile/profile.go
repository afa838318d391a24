package profile

import (
	"DuoChat/controllers"
	"DuoChat/pkg/services"

	"github.com/gin-gonic/gin"
)

func Register(g *gin.RouterGroup, core *services.Core) {
	g.GET("/profile", controllers.Profile(core))
	g.GET("/users", controllers.ListUsers(core))
}
