package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridebooking/internal/handler"
	"ridebooking/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler     *handler.TripHandler
	WalletHandler   *handler.WalletHandler
	DiscountHandler *handler.DiscountHandler
	TariffHandler   *handler.TariffHandler
	UserHandler     *handler.UserHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.RegisterUser)
			users.GET("/:id", deps.UserHandler.GetUser)
			users.GET("/:id/trips", deps.TripHandler.ListPassengerTrips)
			users.GET("/:id/wallet", deps.WalletHandler.GetBalance)
			users.POST("/:id/wallet/topup", deps.WalletHandler.TopUp)
			users.POST("/:id/wallet/withdraw", deps.WalletHandler.Withdraw)
			users.GET("/:id/transactions", deps.WalletHandler.ListTransactions)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.UserHandler.RegisterDriver)
			drivers.POST("/:id/approval", deps.UserHandler.ApproveDriver)
			drivers.GET("/:id/trips", deps.TripHandler.ListDriverTrips)
		}

		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.POST("/estimate", deps.TripHandler.EstimateFare)
			trips.GET("/available", deps.TripHandler.ListAvailableTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/accept", deps.TripHandler.AcceptTrip)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/complete", deps.TripHandler.CompleteTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
		}

		// Discount routes.
		discounts := v1.Group("/discounts")
		{
			discounts.POST("", deps.DiscountHandler.CreateDiscount)
			discounts.POST("/validate", deps.DiscountHandler.ValidateDiscount)
			discounts.DELETE("/:id", deps.DiscountHandler.DeleteDiscount)
		}

		// Tariff routes.
		tariffs := v1.Group("/tariffs")
		{
			tariffs.POST("", deps.TariffHandler.CreateTariff)
			tariffs.GET("", deps.TariffHandler.ListTariffs)
		}
	}

	return router
}
