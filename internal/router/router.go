package router

import (
	"github.com/gin-gonic/gin"

	"rebook/internal/config"
	"rebook/internal/handlers"
	"rebook/internal/metrics"
	"rebook/internal/middleware"
	"rebook/internal/repository"
	"rebook/internal/services"
)

// SetupRouter wires every route over store. Public discovery routes are
// mounted without the identity gate; everything that mutates requires it.
func SetupRouter(store repository.Store, cfg config.Config) *gin.Engine {
	svc := services.New(store)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)

	r.GET("/health", handlers.Health(store))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := middleware.Identity(cfg.JWTSecret, store)

	books := r.Group("/api/books")
	{
		books.GET("", handlers.GetBooks(svc.Discovery))
		books.GET("/my-books", auth, handlers.GetMyBooks(svc.Discovery))
		books.GET("/similar/:id/:category", handlers.GetSimilarBooks(svc.Discovery))
		books.GET("/:id", handlers.GetBook(svc.Discovery))
		books.POST("/sell", auth, handlers.CreateBook(svc.Listings))
		books.PUT("/:id", auth, handlers.UpdateBook(svc.Listings))
		books.DELETE("/:id", auth, handlers.DeleteBook(svc.Listings))
	}

	users := r.Group("/api/users")
	{
		users.POST("/register", handlers.RegisterUser(svc.Accounts))
		users.GET("/profile/:id", handlers.GetProfile(svc.Accounts))

		users.GET("/cart", auth, handlers.GetCart(svc.Cart))
		users.POST("/cart/:id", auth, handlers.AddToCart(svc.Cart))
		users.DELETE("/cart/:id", auth, handlers.RemoveFromCart(svc.Cart))

		users.POST("/:id/reviews", auth, handlers.SubmitReview(svc.Reviews))

		users.GET("", auth, middleware.RequireAdmin(), handlers.ListUsers(svc.Accounts))
		users.DELETE("/:id", auth, middleware.RequireAdmin(), handlers.DeleteUser(svc.Accounts))
	}

	return r
}
