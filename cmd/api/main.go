package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizrank-api/internal/config"
	"github.com/yourusername/quizrank-api/internal/handler"
	"github.com/yourusername/quizrank-api/internal/middleware"
	pgRepo "github.com/yourusername/quizrank-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizrank-api/internal/repository/redis"
	"github.com/yourusername/quizrank-api/internal/service"
	"github.com/yourusername/quizrank-api/internal/service/rankingbatch"
	"github.com/yourusername/quizrank-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)
	rankingRepo := pgRepo.NewRankingRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Контекст жизненного цикла фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Батч-агрегация рейтинга ---
	batchConfig := &rankingbatch.Config{
		CivilOffsetHours: cfg.Ranking.CivilOffsetHours,
		BatchHour:        cfg.Ranking.BatchHour,
	}
	aggregator := rankingbatch.NewAggregator(batchConfig, &rankingbatch.Dependencies{
		AnswerRepo:  answerRepo,
		RankingRepo: rankingRepo,
		CacheRepo:   cacheRepo,
		DB:          db,
	})
	scheduler := rankingbatch.NewScheduler(batchConfig, aggregator)
	go scheduler.Run(ctx)

	// Инициализируем сервисы
	rankingService := service.NewRankingService(
		rankingRepo,
		cacheRepo,
		cfg.Ranking.CivilOffsetHours,
		cfg.Ranking.TopLimit,
		time.Duration(cfg.Ranking.CacheTTLMinutes)*time.Minute,
	)
	answerService := service.NewAnswerService(answerRepo, quizRepo, db)
	userService := service.NewUserService(userRepo)

	// Инициализируем обработчики
	rankingHandler := handler.NewRankingHandler(rankingService)
	answerHandler := handler.NewAnswerHandler(answerService)
	userHandler := handler.NewUserHandler(userService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()
	router.Use(middleware.RequestID())

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	if isProduction {
		// Если используете load balancer, замените nil на []string{"IP_БАЛАНСИРОВЩИКА"}
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Лидерборды (публичные маршруты)
		rankings := api.Group("/rankings")
		rankings.Use(rateLimiter.LimitByIP(middleware.RankingRateLimitConfig()))
		{
			rankings.GET("/daily", rankingHandler.GetDailyRanking)
			rankings.GET("/weekly", rankingHandler.GetWeeklyRanking)
			rankings.GET("/monthly", rankingHandler.GetMonthlyRanking)

			// Позиция текущего пользователя
			myRankings := rankings.Group("")
			myRankings.Use(authMiddleware.RequireAuth())
			{
				myRankings.GET("/daily/me", rankingHandler.GetMyDailyRanking)
				myRankings.GET("/weekly/me", rankingHandler.GetMyWeeklyRanking)
				myRankings.GET("/monthly/me", rankingHandler.GetMyMonthlyRanking)
			}

			// Экспорт лидерборда (дорогой, лимитируется отдельно)
			export := rankings.Group("")
			export.Use(authMiddleware.RequireAuth())
			export.Use(rateLimiter.Limit(middleware.ExportRateLimitConfig()))
			{
				export.GET("/daily/export", rankingHandler.ExportRanking("daily"))
				export.GET("/weekly/export", rankingHandler.ExportRanking("weekly"))
				export.GET("/monthly/export", rankingHandler.ExportRanking("monthly"))
			}
		}

		// Прием ответов
		answers := api.Group("/answers")
		answers.Use(authMiddleware.RequireAuth())
		answers.Use(rateLimiter.Limit(middleware.AnswerRateLimitConfig()))
		{
			answers.POST("", answerHandler.SubmitAnswer)
			answers.POST("/by-quiz-ids", answerHandler.GetAnswersByQuizIDs)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнала остановки, затем гасим фоновые горутины и сервер
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
