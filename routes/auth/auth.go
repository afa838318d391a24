package auth

import (
	"DuoChat/controllers"
	"DuoChat/pkg/services"

	"github.com/gin-gonic/gin"
)

// RegisterPublic registers public auth routes: /register, /login
func RegisterPublic(g *gin.RouterGroup, core *services.Core) {
	g.POST("/register", controllers.Register(core))
	g.POST("/login", controllers.Login(core))
}

// RegisterProtected registers protected auth routes (e.g. logout)
func RegisterProtected(g *gin.RouterGroup, core *services.Core) {
	g.POST("/logout", controllers.Logout(core))
}
