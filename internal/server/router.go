// Package server assembles the HTTP router for the basket API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "smallcase/internal/docs" // Import swagger docs
	apperrors "smallcase/internal/errors"
	"smallcase/internal/handlers"
	"smallcase/internal/middleware"
	"smallcase/internal/services"
)

// Options configures the router.
type Options struct {
	JWTSecret      string
	PipelineAPIKey string
	// Swagger mounts the API documentation at /swagger.
	Swagger bool
}

// Services are the business services the handlers call.
type Services struct {
	Baskets     services.BasketServicer
	Instruments services.InstrumentServicer
	Audit       services.AuditServicer
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(opts Options, svc Services) *gin.Engine {
	basketHandler := handlers.NewBasketHandler(svc.Baskets, svc.Audit)
	instrumentHandler := handlers.NewInstrumentHandler(svc.Instruments, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	v1 := router.Group("/api/v1")

	// Pipeline routes (API key auth)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKey))
	pipeline.POST("/instruments", instrumentHandler.CreateInstruments)
	pipeline.POST("/instruments/prices", instrumentHandler.RecordPrices)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(opts.JWTSecret))

	instruments := protected.Group("/instruments")
	instruments.GET("", instrumentHandler.ListInstruments)
	instruments.POST("/refresh", instrumentHandler.RefreshPrices)
	instruments.GET("/:symbol", instrumentHandler.GetInstrument)

	baskets := protected.Group("/baskets")
	baskets.POST("/preview", basketHandler.PreviewBasket)
	baskets.POST("", basketHandler.CreateBasket)
	baskets.GET("", basketHandler.ListBaskets)
	baskets.GET("/:id", basketHandler.GetBasket)
	baskets.DELETE("/:id", basketHandler.DeleteBasket)
	baskets.POST("/:id/duplicate", basketHandler.DuplicateBasket)
	baskets.PUT("/:id/investment", basketHandler.UpdateInvestment)
	baskets.PATCH("/:id/items/:itemId", basketHandler.UpdateItem)
	baskets.DELETE("/:id/items/:itemId", basketHandler.RemoveItem)

	return router
}
