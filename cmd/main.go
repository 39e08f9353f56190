package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"music-svc/internal/cron"
	"music-svc/internal/domain"
	"music-svc/internal/handler"
	"music-svc/internal/middleware"
	"music-svc/internal/repository"
	"music-svc/internal/service"
	"music-svc/migrations"
	"music-svc/pkg/config"
	"music-svc/pkg/db"
	"music-svc/pkg/jwt"
	"music-svc/pkg/logger"
	"music-svc/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	log := logger.Default()
	log.Info("Starting music-svc")

	cfg, err := config.NewFileLoader(*configPath).Load()
	if err != nil {
		log.Fatal("Failed to load config", logger.F("error", err.Error()))
	}
	log = logger.New(&logger.Config{Level: logger.ParseLevel(cfg.Log.Level)})

	pool, err := initDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", logger.F("error", err.Error()))
	}
	defer pool.Close()
	log.Info("Database connected successfully")

	if err := runMigrations(cfg); err != nil {
		log.Fatal("Failed to run migrations", logger.F("error", err.Error()))
	}
	log.Info("Database schema is up to date")

	cache, redisClient := initCache(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	historyService, analyticsService, songService := initServices(pool, cache)

	var cronManager *cron.CronManager
	if cfg.Cron.Enabled && cache != nil {
		// redis可用时刷新任务带分布式锁，多实例只刷一次
		var locker cron.RefreshLocker
		if redisClient != nil {
			locker = redisClient
		}
		cronManager = cron.NewCronManager(analyticsService, locker, cfg.Cron.AnalyticsRefreshSpec)
		if err := cronManager.Start(); err != nil {
			log.Fatal("Failed to start cron manager", logger.F("error", err.Error()))
		}
		defer cronManager.Stop()
	}

	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:        cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
		TokenExpiry:   cfg.JWT.TokenExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})

	httpServer := startHTTPServer(log, cfg, jwtManager, historyService, analyticsService, songService)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Received shutdown signal", logger.F("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", logger.F("error", err.Error()))
	}

	log.Info("music-svc stopped")
}

func initDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPostgresPool(context.Background(), &db.PostgresConfig{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		Database:        cfg.Postgres.Database,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
}

func runMigrations(cfg *config.Config) error {
	sqlDB, err := db.OpenSQL(&db.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	})
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	migrator, err := db.NewMigrator(sqlDB, migrations.FS, ".")
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.EnsureSchema(context.Background())
}

// initCache 初始化分析缓存，redis未启用时返回nil（服务层降级为直接计算）
func initCache(cfg *config.Config, log logger.Logger) (service.AnalyticsCache, *redis.Client) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled - analytics cache is off")
		return nil, nil
	}

	client, err := redis.NewClient(&redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		Cluster:      cfg.Redis.Cluster,
		ClusterAddrs: cfg.Redis.ClusterAddrs,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})
	if err != nil {
		log.Warn("Failed to connect to redis, analytics cache is off", logger.F("error", err.Error()))
		return nil, nil
	}

	log.Info("Redis connected successfully")
	return redis.NewSingleFlightCache(client), client
}

func initServices(pool *pgxpool.Pool, cache service.AnalyticsCache) (*service.HistoryService, *service.AnalyticsService, *service.SongService) {
	// 初始化仓储层
	historyRepo := repository.NewListeningHistoryRepository(pool)
	songRepo := repository.NewSongRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// 初始化服务层
	historyService := service.NewHistoryService(historyRepo, songRepo)
	analyticsService := service.NewAnalyticsService(historyRepo, songRepo, userRepo, cache)
	songService := service.NewSongService(songRepo)

	return historyService, analyticsService, songService
}

func startHTTPServer(
	log logger.Logger,
	cfg *config.Config,
	jwtManager *jwt.Manager,
	historyService *service.HistoryService,
	analyticsService *service.AnalyticsService,
	songService *service.SongService,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// 中间件顺序: 请求ID -> panic恢复 -> 请求日志 -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	historyHandler := handler.NewHistoryHandler(historyService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	songHandler := handler.NewSongHandler(songService)

	api := router.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtManager))
	{
		api.POST("/history/update", historyHandler.UpdateHistory)
		api.POST("/history/sync", historyHandler.SyncHistory)
		api.POST("/history/log-play", historyHandler.LogPlay)
		api.POST("/history/songs", historyHandler.GetSongsHistory)
		api.GET("/history", historyHandler.GetUserHistory)
		api.GET("/history/me", historyHandler.GetUserHistory)
		api.GET("/history/stats", analyticsHandler.GetUserStats)
		api.GET("/history/song/:songId", historyHandler.GetSongHistory)
		api.DELETE("/history", historyHandler.ClearHistory)
		api.DELETE("/history/song/:songId", historyHandler.RemoveFromHistory)

		api.GET("/songs/:idOrSlug", songHandler.GetSong)
		api.POST("/songs/:idOrSlug/play", songHandler.LogSongPlay)

		admin := api.Group("/history/admin")
		admin.Use(middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/analytics", analyticsHandler.GetGlobalAnalytics)
			admin.GET("/song/:songId", analyticsHandler.GetSongAnalytics)
			admin.GET("/top-songs", analyticsHandler.GetTopSongs)
			admin.GET("/top-listeners", analyticsHandler.GetTopListeners)
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server listening", logger.F("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", logger.F("error", err.Error()))
		}
	}()

	return server
}
