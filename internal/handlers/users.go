package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rebook/internal/metrics"
	"rebook/internal/services"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
}

// reviewRequest is checked by ReviewService, not by binding tags.
type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func RegisterUser(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/register"
		defer handlePanic(c, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		user, err := accounts.Register(ctx, services.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		metrics.RecordOperation("account.register", err)
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Info().Str("route", route).Str("userId", user.ID.Hex()).Msg("account registered")
		c.JSON(http.StatusCreated, user.Public())
	}
}

func GetProfile(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/profile/:id"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		profile, err := accounts.Profile(ctx, id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func ListUsers(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		users, err := accounts.List(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func DeleteUser(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/:id"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		err := accounts.Delete(ctx, actor, id)
		metrics.RecordOperation("account.delete", err)
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Info().Str("route", route).Str("userId", id.Hex()).Str("admin", actor.ID.Hex()).Msg("account deleted")
		c.JSON(http.StatusOK, gin.H{"message": "user removed"})
	}
}

func SubmitReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/:id/reviews"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}
		targetID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		review, err := reviews.Submit(ctx, actor, targetID, services.ReviewInput{
			Rating:  req.Rating,
			Comment: req.Comment,
		})
		metrics.RecordOperation("review.submit", err)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "review added", "review": review})
	}
}
