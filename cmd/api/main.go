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

	"github.com/yourusername/quizroom-api/internal/config"
	"github.com/yourusername/quizroom-api/internal/handler"
	"github.com/yourusername/quizroom-api/internal/middleware"
	pgRepo "github.com/yourusername/quizroom-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizroom-api/internal/repository/redis"
	"github.com/yourusername/quizroom-api/internal/service"
	"github.com/yourusername/quizroom-api/internal/service/gameroom"
	ws "github.com/yourusername/quizroom-api/internal/websocket"
	"github.com/yourusername/quizroom-api/pkg/auth"
	"github.com/yourusername/quizroom-api/pkg/database"
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

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	// Контекст приложения для фоновых задач (таймеры комнат)
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Репозитории
	userRepo := pgRepo.NewUserRepo(db)
	sectionRepo := pgRepo.NewSectionRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	themeRepo := pgRepo.NewThemeRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	inGameQuestionRepo := pgRepo.NewInGameQuestionRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to init cache repository: %v", err)
		os.Exit(1)
	}

	// WebSocket хаб и менеджер комнат
	hub := ws.NewHub()
	wsManager := ws.NewManager(hub)

	// Игровое ядро
	registry := gameroom.NewRegistry()
	rounds := gameroom.NewRoundController(gameRepo, inGameQuestionRepo, registry)
	roomTimer := gameroom.NewTimer(hub)

	// JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec)
	if err != nil {
		log.Printf("Failed to init JWT service: %v", err)
		os.Exit(1)
	}

	// Сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	quizService := service.NewQuizService(quizRepo, sectionRepo, themeRepo, questionRepo)
	gameService := service.NewGameService(
		appCtx,
		gameRepo, quizRepo, participantRepo, inGameQuestionRepo,
		userRepo, cacheRepo, registry, rounds, roomTimer, db,
	)

	// Обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	quizHandler := handler.NewQuizHandler(quizService)
	gameHandler := handler.NewGameHandler(gameService)
	wsHandler := handler.NewWSHandler(wsManager, gameService, jwtService, cfg.Server.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Роутер
	router := newRouter(cfg, routerHandlers{
		auth: authHandler,
		user: userHandler,
		quiz: quizHandler,
		game: gameHandler,
		ws:   wsHandler,
	}, authMiddleware)

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

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	appCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}

	log.Println("Server exited")
}
