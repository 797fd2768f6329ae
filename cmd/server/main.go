package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"team_chat/internal/config"
	"team_chat/internal/handler"
	"team_chat/internal/hub"
	"team_chat/internal/middleware"
	"team_chat/internal/repository"
	"team_chat/internal/service"
	"team_chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger := logger.New(cfg.Log.Level)

	// Подключение к PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to parse database DSN", "error", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)
	poolCfg.MaxConnIdleTime = cfg.Database.MaxIdleTime
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	// Проверка подключения к БД
	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	// Подключение к Redis. Redis держит персональные очереди; без него
	// сервис продолжает работать на in-memory очередях одного процесса
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			appLogger.Warn("Redis unavailable, falling back to in-memory queues", "error", err)
			rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
			appLogger.Info("Redis connection established")
		}
	}

	// Инициализация репозиториев
	repos := repository.NewRepositories(dbPool, rdb, appLogger)

	// Live-доставка через WebSocket
	liveHub := hub.NewHub(appLogger)

	// Инициализация сервисов
	services := service.NewServices(repos, liveHub, cfg, appLogger)

	// Инициализация middleware
	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)

	// Инициализация handlers
	handlers := handler.NewHandlers(services, repos, liveHub, cfg, appLogger)

	// Настройка роутера
	router := setupRouter(handlers, authMiddleware, cfg, appLogger)

	// Запуск HTTP сервера
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.Health.Check)

	// Метрики Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Публичные endpoints
		public := v1.Group("/auth")
		{
			public.POST("/register", handlers.Auth.Register)
			public.POST("/login", handlers.Auth.Login)
		}

		// Публикация и доставка. Polling-клиенты ходят сюда без
		// авторизационного заголовка, как и live-подписчики на /ws
		v1.POST("/messages/room", handlers.Message.PublishRoom)
		v1.POST("/messages/direct", handlers.Message.PublishDirect)
		v1.GET("/queue", handlers.Queue.Drain)
		v1.GET("/history", handlers.History.Room)
		v1.GET("/direct-history", handlers.History.Direct)
		v1.GET("/unread", handlers.History.Unread)
		v1.POST("/unread/mark-read", handlers.History.MarkRead)
		v1.POST("/presence", handlers.Presence.Update)
		v1.GET("/rooms/:id", handlers.Room.GetByID)

		// Защищенные endpoints
		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			users := protected.Group("/users")
			{
				users.GET("/me", handlers.User.GetMe)
				users.GET("/by-username/:username", handlers.User.GetByUsername)
				users.PUT("/me/timezone", handlers.User.UpdateTimezone)
			}
		}
	}

	// WebSocket endpoints: поток комнаты и персональный поток
	router.GET("/ws/rooms/:id", handlers.WebSocket.HandleRoom)
	router.GET("/ws/users/:id", handlers.WebSocket.HandleUser)

	return router
}
