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
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/neonfoxik/GameBot/internal/config"
	"github.com/neonfoxik/GameBot/internal/handler"
	"github.com/neonfoxik/GameBot/internal/middleware"
	pgRepo "github.com/neonfoxik/GameBot/internal/repository/postgres"
	redisRepo "github.com/neonfoxik/GameBot/internal/repository/redis"
	"github.com/neonfoxik/GameBot/internal/service"
	"github.com/neonfoxik/GameBot/internal/sheets"
	"github.com/neonfoxik/GameBot/internal/telegram"
	"github.com/neonfoxik/GameBot/pkg/database"
)

func main() {
	// .env удобен для локальной разработки; в проде переменные задает окружение
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

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
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	playerRepo := pgRepo.NewPlayerRepo(db)
	playerClassRepo := pgRepo.NewPlayerClassRepo(db)
	gameClassRepo := pgRepo.NewGameClassRepo(db)
	activityRepo := pgRepo.NewActivityRepo(db)
	participationRepo := pgRepo.NewParticipationRepo(db)
	historyRepo := pgRepo.NewHistoryRepo(db)

	trackerRepo, err := redisRepo.NewMessageTrackerRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize MessageTrackerRepo: %v", err)
		os.Exit(1)
	}

	// Корневой контекст приложения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Выгрузка в Google Sheets опциональна: без настроек бот работает,
	// но истории придется выгружать вручную
	var exporter service.ExportGateway
	if cfg.Sheets.Enabled {
		sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
		if err != nil {
			log.Printf("Failed to initialize Sheets client: %v", err)
			os.Exit(1)
		}
		exporter = sheetsClient
		log.Printf("Выгрузка в Google Sheets включена: %s", sheetsClient.SpreadsheetURL())
	} else {
		log.Println("Выгрузка в Google Sheets отключена")
	}

	// Инициализируем Telegram API
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Printf("Failed to initialize Telegram bot: %v", err)
		os.Exit(1)
	}
	botAPI.Debug = cfg.Telegram.Debug

	notifier := telegram.NewNotifier(botAPI, trackerRepo)

	// Инициализируем сервисы
	coefficientService := service.NewCoefficientService(gameClassRepo, activityRepo)
	playerService := service.NewPlayerService(playerRepo, playerClassRepo, gameClassRepo)
	gameClassService := service.NewGameClassService(gameClassRepo)
	participationService := service.NewParticipationService(participationRepo, activityRepo, playerRepo, playerClassRepo, coefficientService)
	historyService := service.NewHistoryService(historyRepo, participationRepo, exporter)
	activityService := service.NewActivityService(activityRepo, gameClassRepo, playerRepo, participationService, historyService, notifier, db)

	// Запускаем Telegram-бота
	bot := telegram.NewBot(botAPI, telegram.Services{
		Players:        playerService,
		Activities:     activityService,
		Participations: participationService,
		GameClasses:    gameClassService,
	}, trackerRepo, cfg.Telegram.PollTimeout)

	go func() {
		if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Telegram bot stopped: %v", err)
		}
	}()

	// Инициализируем обработчики админ-API
	activityHandler := handler.NewActivityHandler(activityService, participationService)
	gameClassHandler := handler.NewGameClassHandler(gameClassService)
	playerHandler := handler.NewPlayerHandler(playerService)
	historyHandler := handler.NewHistoryHandler(historyService)

	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты админ-API
	api := router.Group("/api")
	api.Use(rateLimiter.LimitByIP(middleware.DefaultAdminRateLimitConfig()))
	api.Use(middleware.AdminAuth(cfg.Admin.Token))
	{
		// Активности
		activities := api.Group("/activities")
		{
			activities.POST("", activityHandler.CreateActivity)
			activities.GET("", activityHandler.ListActivities)
			activities.GET("/active", activityHandler.GetActiveActivities)

			activityWithID := activities.Group("/:id")
			activityWithID.Use(middleware.ExtractUintParam("id", "activityID"))
			{
				activityWithID.GET("", activityHandler.GetActivity)
				activityWithID.POST("/activate", activityHandler.ActivateActivity)
				activityWithID.POST("/deactivate", activityHandler.DeactivateActivity)
				activityWithID.POST("/sync-coefficients", activityHandler.SyncCoefficients)
				activityWithID.GET("/participants", activityHandler.GetActivityParticipants)
			}
		}

		// Сессии участия
		participations := api.Group("/participations/:id")
		participations.Use(middleware.ExtractUintParam("id", "participationID"))
		{
			participations.POST("/bonus", activityHandler.AddBonusPoints)
		}

		// Игровые классы и правила коэффициентов
		gameClasses := api.Group("/game-classes")
		{
			gameClasses.POST("", gameClassHandler.CreateGameClass)
			gameClasses.GET("", gameClassHandler.ListGameClasses)

			gameClassWithID := gameClasses.Group("/:id")
			gameClassWithID.Use(middleware.ExtractUintParam("id", "gameClassID"))
			{
				gameClassWithID.GET("", gameClassHandler.GetGameClass)
				gameClassWithID.POST("/rules", gameClassHandler.AddRule)
			}
		}
		rules := api.Group("/rules/:id")
		rules.Use(middleware.ExtractUintParam("id", "ruleID"))
		{
			rules.DELETE("", gameClassHandler.RemoveRule)
		}

		// Игроки
		players := api.Group("/players")
		{
			players.GET("", playerHandler.ListPlayers)

			playerWithID := players.Group("/:id")
			playerWithID.Use(middleware.ExtractUintParam("id", "playerID"))
			{
				playerWithID.GET("", playerHandler.GetPlayer)
				playerWithID.PUT("/access", playerHandler.SetAccess)
				playerWithID.POST("/classes", playerHandler.AddPlayerClass)

				playerClass := playerWithID.Group("/classes/:classID")
				playerClass.Use(middleware.ExtractUintParam("classID", "playerClassID"))
				{
					playerClass.PUT("/level", playerHandler.SetClassLevel)
					playerClass.DELETE("", playerHandler.RemovePlayerClass)
				}
			}
		}

		// Архив прогонов активностей
		histories := api.Group("/histories")
		{
			histories.GET("", historyHandler.ListHistories)

			historyWithID := histories.Group("/:id")
			historyWithID.Use(middleware.ExtractUintParam("id", "historyID"))
			{
				historyWithID.GET("", historyHandler.GetHistory)
				historyWithID.POST("/export", historyHandler.ExportHistory)
				historyWithID.GET("/download", historyHandler.DownloadHistory)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

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
	log.Println("Shutting down...")

	// Останавливаем бота и фоновые горутины
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
