package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rebook/internal/geo"
	"rebook/internal/metrics"
	"rebook/internal/models"
	"rebook/internal/services"
)

type imageRequest struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url" binding:"required,url"`
}

func (r *imageRequest) toImage() *models.Image {
	if r == nil {
		return nil
	}
	return &models.Image{PublicID: r.PublicID, URL: r.URL}
}

type createBookRequest struct {
	Title       string        `json:"title" binding:"required"`
	Author      string        `json:"author" binding:"required"`
	Price       float64       `json:"price" binding:"required,gt=0"`
	Condition   string        `json:"condition" binding:"required"`
	Category    string        `json:"category" binding:"required"`
	Description string        `json:"description"`
	City        string        `json:"city"`
	Lat         *float64      `json:"lat"`
	Lng         *float64      `json:"lng"`
	Image       *imageRequest `json:"image" binding:"required"`
}

type updateBookRequest struct {
	Title       *string       `json:"title" binding:"omitempty,min=1"`
	Author      *string       `json:"author" binding:"omitempty,min=1"`
	Price       *float64      `json:"price" binding:"omitempty,gt=0"`
	Condition   *string       `json:"condition"`
	Category    *string       `json:"category"`
	Description *string       `json:"description"`
	City        *string       `json:"city"`
	Lat         *float64      `json:"lat"`
	Lng         *float64      `json:"lng"`
	Image       *imageRequest `json:"image"`
}

/*
GET /api/books
- lat + lng given -> listings within 500 km, nearest first, with distance
- neither given   -> every listing, newest first
- page + limit optional, applied after ranking
*/
func GetBooks(discovery *services.DiscoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/books"
		defer handlePanic(c, route)

		point, err := geo.ParsePoint(c.Query("lat"), c.Query("lng"))
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		results, err := discovery.Discover(ctx, services.DiscoveryQuery{Point: point})
		if err != nil {
			respondError(c, route, err)
			return
		}

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondError(c, route, err)
				return
			}
			results = paginate(results, page, limit)
		}

		log.Debug().Str("route", route).Bool("near", point != nil).Int("count", len(results)).Msg("returning books")
		c.JSON(http.StatusOK, results)
	}
}

func GetBook(discovery *services.DiscoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/books/:id"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		book, err := discovery.Get(ctx, id)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

func GetSimilarBooks(discovery *services.DiscoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/books/similar/:id/:category"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		books, err := discovery.Similar(ctx, id, c.Param("category"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

func GetMyBooks(discovery *services.DiscoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/books/my-books"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		books, err := discovery.Mine(ctx, actor.ID)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

func CreateBook(listings *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/books/sell"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}

		var req createBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		book, err := listings.Create(ctx, actor, services.ListingInput{
			Title:       req.Title,
			Author:      req.Author,
			Price:       req.Price,
			Condition:   req.Condition,
			Category:    req.Category,
			Description: req.Description,
			City:        req.City,
			Lat:         req.Lat,
			Lng:         req.Lng,
			Image:       req.Image.toImage(),
		})
		metrics.RecordOperation("listing.create", err)
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Info().Str("route", route).Str("bookId", book.ID.Hex()).Str("seller", actor.ID.Hex()).Msg("listing created")
		c.JSON(http.StatusCreated, book)
	}
}

func UpdateBook(listings *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/books/:id"
		defer handlePanic(c, route)

		actor, ok := currentActor(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var req updateBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		book, err := listings.Update(ctx, actor, id, services.ListingPatch{
			Title:       req.Title,
			Author:      req.Author,
			Price:       req.Price,
			Condition:   req.Condition,
			Category:    req.Category,
			Description: req.Description,
			City:        req.City,
			Lat:         req.Lat,
			Lng:         req.Lng,
			Image:       req.Image.toImage(),
		})
		metrics.RecordOperation("listing.update", err)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

func DeleteBook(listings *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/books/:id"
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

		err := listings.Delete(ctx, actor, id)
		metrics.RecordOperation("listing.delete", err)
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Info().Str("route", route).Str("bookId", id.Hex()).Str("actor", actor.ID.Hex()).Msg("listing deleted")
		c.JSON(http.StatusOK, gin.H{"message": "book removed"})
	}
}
