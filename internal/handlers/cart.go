package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rebook/internal/metrics"
	"rebook/internal/services"
)

func AddToCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/cart/:id"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}
		bookID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		ids, err := cart.Add(ctx, actor.ID, bookID)
		metrics.RecordOperation("cart.add", err)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "book added to cart", "cart": ids})
	}
}

func RemoveFromCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/cart/:id"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}
		bookID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		ids, err := cart.Remove(ctx, actor.ID, bookID)
		metrics.RecordOperation("cart.remove", err)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "book removed from cart", "cart": ids})
	}
}

func GetCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/cart"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		items, err := cart.Get(ctx, actor.ID)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
