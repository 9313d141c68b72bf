package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
	"rebook/internal/guard"
	"rebook/internal/middleware"
)

const requestTimeout = 5 * time.Second

// Pinger is satisfied by every store.
type Pinger interface {
	Ping(ctx context.Context) error
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Error().Str("route", route).Interface("panic", r).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
	}
}

func ensureStoreConnection(ctx context.Context, store Pinger) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return store.Ping(checkCtx)
}

func respondWithError(c *gin.Context, status int, route string, code string, message string) {
	log.Warn().Str("route", route).Int("status", status).Str("code", code).Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

// respondError maps a domain error onto its HTTP status. Unclassified errors
// are logged and reported as a bare 500.
func respondError(c *gin.Context, route string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Str("route", route).Err(err).Msg("request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error", "code": "INTERNAL"})
		return
	}
	respondWithError(c, status, route, apperrors.Code(err), publicMessage(err))
}

func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindNotAuthorized, apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage reports the sentinel's text. Plain input errors keep the
// detail wrapped right before the sentinel, e.g. "price must be positive".
func publicMessage(err error) string {
	cause := apperrors.Cause(err)
	if cause == nil {
		return "internal server error"
	}
	if cause != apperrors.ErrInvalidInput {
		return cause.Error()
	}

	full := err.Error()
	detail := strings.TrimSuffix(full, ": "+cause.Error())
	if detail == full {
		return cause.Error()
	}
	if i := strings.LastIndex(detail, ": "); i >= 0 {
		detail = detail[i+2:]
	}
	if detail == "" {
		return cause.Error()
	}
	return detail
}

func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		log.Warn().Str("route", route).Strs("details", details).Msg("validation failed")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"code":    "INVALID_INPUT",
			"details": details,
		})
		return
	}

	respondWithError(c, http.StatusBadRequest, route, "INVALID_INPUT", "invalid body")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// objectIDParam parses the named path parameter, answering 400 itself when
// it is not a valid ObjectID.
func objectIDParam(c *gin.Context, route, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "INVALID_INPUT", "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentActor returns the actor set by the identity middleware, answering
// 401 itself when the route was mounted without it.
func currentActor(c *gin.Context, route string) (guard.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, "UNAUTHENTICATED", "unauthorized")
		return guard.Actor{}, false
	}
	return actor, true
}
