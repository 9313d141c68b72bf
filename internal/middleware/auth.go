package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rebook/internal/apperrors"
)

// RequireAdmin admits only actors whose stored account is an admin. It must
// run after Identity.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abortUnauthenticated(c, "missing token")
			return
		}
		if !actor.IsAdmin {
			log.Warn().Str("area", "auth").Str("userId", actor.ID.Hex()).Msg("admin route refused")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not authorized as an admin",
				"code":  apperrors.Code(apperrors.ErrNotAuthorized),
			})
			return
		}
		c.Next()
	}
}
