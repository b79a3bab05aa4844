package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/unspace/backend/config"
	"github.com/unspace/backend/internal/auth"
	"github.com/unspace/backend/internal/cache"
	"github.com/unspace/backend/internal/database"
	"github.com/unspace/backend/internal/handlers"
	"github.com/unspace/backend/internal/middleware"
	"github.com/unspace/backend/internal/notify"
	"github.com/unspace/backend/internal/repository"
	"github.com/unspace/backend/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Running without Redis - real-time delivery will be limited")
		redis = nil
	} else {
		defer redis.Close()
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// Notification emitter: best effort, optionally pushing over Redis
	var publisher notify.Publisher
	if redis != nil {
		publisher = redis
	}
	emitter := notify.NewEmitter(notifRepo, publisher)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	convHandler := handlers.NewConversationHandler(convRepo, msgRepo, userRepo, redis, emitter)
	msgHandler := handlers.NewMessageHandler(msgRepo, convRepo, redis, emitter)
	itemHandler := handlers.NewItemHandler(itemRepo, convRepo, msgRepo, redis, emitter)
	notifHandler := handlers.NewNotificationHandler(notifRepo)

	// Initialize WebSocket hub (only if Redis is available)
	var wsHandler *websocket.Handler
	if redis != nil {
		hub := websocket.NewHub(redis, convRepo)
		go hub.Run()
		wsHandler = websocket.NewHandler(hub, jwtService, msgRepo, convRepo, redis, cfg.CORS.AllowedOrigins)
	}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg.API.RateLimitMessagesPerSec)
	rateLimiter.Cleanup()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// WebSocket endpoint (only if Redis is available)
	if wsHandler != nil {
		router.GET("/ws", wsHandler.HandleWebSocket)
	}

	if cfg.Dev.UserID != nil {
		log.Printf("Development fallback identity enabled: %s", cfg.Dev.UserID)
	}

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService, cfg.Dev.UserID))
	{
		// User routes
		api.GET("/me", authHandler.GetMe)

		// Conversation routes
		api.GET("/conversations", convHandler.GetConversations)
		api.POST("/conversations", convHandler.CreateConversation)
		api.GET("/conversations/:id", convHandler.GetConversation)
		api.PUT("/conversations/:id/read", msgHandler.MarkAsRead)

		// Message routes
		api.GET("/messages", msgHandler.GetMessages)
		api.POST("/messages", middleware.RateLimitMiddleware(rateLimiter), msgHandler.SendMessage)

		// Item routes (marketplace collaborator surface)
		api.POST("/items", itemHandler.CreateItem)
		api.GET("/items", itemHandler.ListItems)
		api.GET("/items/:id", itemHandler.GetItem)
		api.POST("/items/:id/claim", itemHandler.ClaimItem)

		// Notification routes
		api.GET("/notifications", notifHandler.GetNotifications)
		api.PUT("/notifications/read", notifHandler.MarkAllRead)

		// WebSocket info (only if Redis is available)
		if wsHandler != nil {
			api.GET("/online-users", wsHandler.GetOnlineUsers)
		}
	}

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Starting Unspace messaging server on %s (env: %s)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
