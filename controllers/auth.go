package controllers

import (
	"net/http"

	"DuoChat/middleware"
	"DuoChat/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register handler
func Register(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body services.RegisterInput
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid request")
			return
		}
		res, err := core.Auth.Register(c.Request.Context(), body)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, res)
	}
}

// Login handler
func Login(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body services.LoginInput
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid request")
			return
		}
		res, err := core.Auth.Login(c.Request.Context(), body)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, res)
	}
}

// Logout handler
func Logout(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := core.Auth.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
			respondError(c, err)
			return
		}
		respondMsg(c, "logged out")
	}
}
