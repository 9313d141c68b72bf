package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Health(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /health"
		defer handlePanic(c, route)

		if err := ensureStoreConnection(c.Request.Context(), store); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "UNAVAILABLE", "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
