package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
	"rebook/internal/guard"
	"rebook/internal/repository"
)

const (
	userIDKey = "userId"
	actorKey  = "actor"
)

// Identity verifies the HS256 bearer token, loads the account it names and
// injects the resolved guard.Actor. The admin flag always comes from the
// stored account, never from the token.
func Identity(secret string, accounts repository.AccountRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Warn().Str("area", "auth").Msg("missing token")
			abortUnauthenticated(c, "missing token")
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Warn().Str("area", "auth").Msg("invalid token format")
			abortUnauthenticated(c, "invalid token")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			log.Warn().Str("area", "auth").Err(err).Msg("token validation failed")
			abortUnauthenticated(c, "unauthorized")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			log.Warn().Str("area", "auth").Msg("token claims invalid")
			abortUnauthenticated(c, "unauthorized")
			return
		}

		userIDValue, ok := claims["userId"].(string)
		if !ok || strings.TrimSpace(userIDValue) == "" {
			log.Warn().Str("area", "auth").Msg("userId claim missing")
			abortUnauthenticated(c, "unauthorized")
			return
		}

		userID, err := primitive.ObjectIDFromHex(userIDValue)
		if err != nil {
			log.Warn().Str("area", "auth").Msg("invalid userId claim")
			abortUnauthenticated(c, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		account, err := accounts.FindAccountByID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.Warn().Str("area", "auth").Str("userId", userIDValue).Msg("token names a missing account")
				abortUnauthenticated(c, "unauthorized")
				return
			}
			log.Error().Str("area", "auth").Err(err).Msg("account lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
			return
		}

		c.Set(userIDKey, account.ID)
		c.Set(actorKey, guard.Actor{ID: account.ID, IsAdmin: account.IsAdmin})
		c.Next()
	}
}

// ActorFrom returns the actor injected by Identity.
func ActorFrom(c *gin.Context) (guard.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return guard.Actor{}, false
	}
	actor, ok := value.(guard.Actor)
	return actor, ok
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "code": apperrors.Code(apperrors.ErrUnauthenticated)})
}
