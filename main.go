package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"portfolio-tracker/config"
	"portfolio-tracker/database"
	"portfolio-tracker/handlers"
	"portfolio-tracker/market"
	"portfolio-tracker/middleware"
	"portfolio-tracker/valuation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file loaded: ", err)
	}

	// Initialize PostgreSQL and Redis connections.
	config.InitDB()
	config.InitRedis()

	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(config.DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}

	marketClient := market.New(config.PolygonAPIKey(), config.DB, config.Rdb, config.PriceCacheTTL())
	handlers.Init(marketClient, valuation.NewEngine(marketClient))

	router := gin.Default()

	// Public routes
	router.POST("/auth/register", handlers.Register)
	router.POST("/auth/login", handlers.Login)
	router.POST("/auth/refresh", handlers.Refresh)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.JWTAuth())
	{
		auth.POST("/portfolios", handlers.CreatePortfolio)
		auth.GET("/portfolios", handlers.ListPortfolios)
		auth.GET("/portfolios/:id", handlers.GetPortfolio)
		auth.DELETE("/portfolios/:id", handlers.DeletePortfolio)

		auth.POST("/portfolios/:id/holdings", handlers.AddHolding)
		auth.GET("/portfolios/:id/holdings", handlers.ListHoldings)
		auth.DELETE("/portfolios/:id/holdings/:holdingID", handlers.DeleteHolding)
		auth.GET("/portfolios/:id/valuation", handlers.PortfolioValuation)

		auth.GET("/prices/:symbol", handlers.GetStockPrice)
		auth.GET("/prices/:symbol/history", handlers.GetPriceHistory)
	}

	if err := router.Run(":" + config.Port()); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
