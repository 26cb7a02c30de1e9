package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"token-casino-backend/internal/config"
	"token-casino-backend/internal/handlers"
	"token-casino-backend/internal/logger"
	"token-casino-backend/internal/middleware"
	"token-casino-backend/internal/monitor"
	"token-casino-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		logger.Log.Fatalw("failed to connect to redis", "error", err)
	}
	defer redisService.Close()

	metrics := monitor.NewMetrics("casino")
	if cfg.MetricsAddr != "" {
		monitor.StartServer(cfg.MetricsAddr)
		logger.Log.Infow("metrics server started", "addr", cfg.MetricsAddr)
	}

	jwtService := services.NewJWTService(cfg)
	walletService := services.NewWalletService(redisService, cfg, metrics)
	seedManager := services.NewSeedManager(redisService)
	gameEngine := services.NewGameEngine(redisService, walletService, seedManager, cfg, metrics)

	wsHandler := handlers.NewWebSocketHandler(walletService)
	gameEngine.SetBroadcaster(wsHandler)

	authHandler := handlers.NewAuthHandler(redisService, jwtService)
	userHandler := handlers.NewUserHandler(redisService, walletService)
	gameHandler := handlers.NewGameHandler(gameEngine, seedManager)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.GET("/balance", userHandler.GetBalance)
		protected.POST("/faucet", userHandler.ClaimFaucet)
		protected.GET("/transactions", userHandler.GetTransactions)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("/spin", gameHandler.Spin)
			games.GET("/active", gameHandler.GetActiveRounds)
			games.GET("/history", gameHandler.GetHistory)

			blackjack := games.Group("/blackjack")
			{
				blackjack.POST("/start", gameHandler.StartBlackjack)
				blackjack.POST("/action", gameHandler.BlackjackAction)
			}

			mines := games.Group("/mines")
			{
				mines.POST("/start", gameHandler.StartMines)
				mines.POST("/reveal", gameHandler.RevealMine)
				mines.POST("/cashout", gameHandler.CashoutMines)
			}

			chicken := games.Group("/chicken")
			{
				chicken.POST("/start", gameHandler.StartChicken)
				chicken.POST("/step", gameHandler.ChickenStep)
				chicken.POST("/cashout", gameHandler.CashoutChicken)
			}

			poker := games.Group("/videopoker")
			{
				poker.POST("/deal", gameHandler.DealVideoPoker)
				poker.POST("/draw", gameHandler.DrawVideoPoker)
			}
		}

		fair := protected.Group("/fair")
		{
			fair.GET("/seed", gameHandler.GetSeed)
			fair.POST("/client-seed", gameHandler.SetClientSeed)
			fair.POST("/rotate", gameHandler.RotateSeed)
			fair.POST("/verify", gameHandler.Verify)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/adjust", userHandler.AdminAdjust)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logger.Log.Infow("server starting", "port", port)
	if err := router.Run(":" + port); err != nil {
		logger.Log.Fatalw("server exited", "error", err)
	}
}
