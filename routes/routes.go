package routes

import (
	"DuoChat/middleware"
	"DuoChat/pkg/services"
	"net/http"

	"github.com/gin-gonic/gin"

	authRoutes "DuoChat/routes/auth"
	convRoutes "DuoChat/routes/conversation"
	fileRoutes "DuoChat/routes/files"
	profileRoutes "DuoChat/routes/profile"
)

func RegisterRoutes(r *gin.Engine, core *services.Core, limiter *middleware.RateLimiter) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "DuoChat backend running"})
	})

	public := r.Group("/")
	public.Use(limiter.Middleware())
	authRoutes.RegisterPublic(public, core)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(core.Auth), limiter.Middleware())
	authRoutes.RegisterProtected(protected, core)
	profileRoutes.Register(protected, core)
	convRoutes.Register(protected, core)
	fileRoutes.Register(protected, core)
}
