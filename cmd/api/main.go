package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"devlink/portal/portal-backend/internal/assistant"
	"devlink/portal/portal-backend/internal/auth"
	"devlink/portal/portal-backend/internal/chat"
	"devlink/portal/portal-backend/internal/config"
	"devlink/portal/portal-backend/internal/connections"
	"devlink/portal/portal-backend/internal/investors"
	"devlink/portal/portal-backend/internal/notifications"
	wsocket "devlink/portal/portal-backend/internal/notifications/websocket"
	"devlink/portal/portal-backend/internal/projects"
	"devlink/portal/portal-backend/internal/technologies"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Security.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	dbURL := cfg.Database.GetDatabaseURL()
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// The notification feed rides on gorm; everything else uses sqlx
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}
	if err := notifications.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate notifications", zap.Error(err))
	}

	// Realtime
	wsManager := wsocket.NewManager(logger)
	defer wsManager.Close()
	notificationService := notifications.NewService(gormDB, wsManager, logger)

	// Auth
	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, cfg.Security.JWTSecret, cfg.Security.TokenLifetime, logger)
	authHandler := auth.NewHandler(authService, logger)

	// Investor directory
	investorRepo := investors.NewRepository(db)
	investorService := investors.NewService(investorRepo, logger)
	investorHandler := investors.NewHandler(investorService, logger)

	// Technology feed
	techRepo := technologies.NewRepository(db)
	techService := technologies.NewService(techRepo, logger)
	techHandler := technologies.NewHandler(techService, logger)

	// Projects
	projectRepo := projects.NewRepository(db)
	projectService := projects.NewService(projectRepo, logger)
	projectHandler := projects.NewHandler(projectService, logger)

	// Assistant
	assistantRepo := assistant.NewRepository(db)
	assistantService := assistant.NewService(assistantRepo, logger)
	assistantHandler := assistant.NewHandler(assistantService, logger)

	// Chat
	chatRepo := chat.NewRepository(db)
	chatService := chat.NewService(chatRepo, notificationService, logger)
	chatHandler := chat.NewHandler(chatService, logger)

	// Connections
	connectionRepo := connections.NewRepository(db)
	connectionService := connections.NewService(connectionRepo, authService, projectService, chatService, notificationService, logger)
	connectionHandler := connections.NewHandler(connectionService, logger)

	notificationHandler := notifications.NewHandler(notificationService, logger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	if cfg.Feed.SeedSamples {
		if err := techService.SeedIfEmpty(startCtx); err != nil {
			logger.Warn("Failed to seed technology feed", zap.Error(err))
		}
	}
	cancelStart()

	trending := technologies.NewTrendingRefresher(techRepo, cfg.Feed.TrendingCron, logger)
	if err := trending.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start trending refresher", zap.Error(err))
	}
	defer trending.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(api)
		techHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(auth.RequireAuth(authService))
		{
			investorHandler.RegisterRoutes(protected)
			techHandler.RegisterProtectedRoutes(protected)
			projectHandler.RegisterRoutes(protected)
			assistantHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			connectionHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			protected.GET("/ws", func(c *gin.Context) {
				userID, ok := auth.UserIDFromContext(c)
				if !ok {
					c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
					return
				}
				if _, err := wsManager.HandleConnection(c.Writer, c.Request, userID); err != nil {
					logger.Warn("WebSocket upgrade failed", zap.Error(err))
				}
			})
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"timestamp":   time.Now(),
			"connections": wsManager.ConnectionCount(),
		})
	})

	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", cfg.Server.GetServerAddr()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
