package middleware

import (
	"context"
	"strings"

	"DuoChat/pkg/apperr"
	"DuoChat/pkg/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "current_user_id"
	ContextClaimsKey = "current_claims"
)

// TokenVerifier checks a bearer token, including revocation.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*services.Claims, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			abortWith(c, apperr.Newf(apperr.Unauthorized, "missing authorization header"))
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWith(c, apperr.Newf(apperr.Unauthorized, "invalid authorization header"))
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user, or 0 outside AuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextUserIDKey)
	id, _ := v.(uint)
	return id
}

func CurrentClaims(c *gin.Context) *services.Claims {
	v, _ := c.Get(ContextClaimsKey)
	claims, _ := v.(*services.Claims)
	return claims
}

func abortWith(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	msg := apperr.Message(code)
	if code != apperr.Internal {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(code), gin.H{
		"success": false,
		"message": msg,
		"code":    code,
	})
}
