package controllers

import (
	"net/http"

	"DuoChat/middleware"
	"DuoChat/pkg/services"
	utils "DuoChat/pkg/utills"

	"github.com/gin-gonic/gin"
)

func Profile(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, err := core.Auth.Me(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, me)
	}
}

// ListUsers finds chat partners. The caller is left out unless
// exclude_self=false.
func ListUsers(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		var exclude uint
		if utils.BoolOr(c.Query("exclude_self"), true) {
			exclude = middleware.CurrentUserID(c)
		}
		users, err := core.Users.List(c.Request.Context(), c.Query("search"), exclude)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, users)
	}
}
