// main.go — точка входа Intake Module.
// Собирает компоненты: config → logger → MongoDB → хранилище файлов →
// переводы → рендерер → SMTP → сервисы → HTTP-сервер.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/aqeaw/awards/intake-module/internal/api/handlers"
	"github.com/aqeaw/awards/intake-module/internal/config"
	"github.com/aqeaw/awards/intake-module/internal/database"
	"github.com/aqeaw/awards/intake-module/internal/mailer"
	"github.com/aqeaw/awards/intake-module/internal/notify"
	"github.com/aqeaw/awards/intake-module/internal/notify/i18n"
	"github.com/aqeaw/awards/intake-module/internal/repository"
	"github.com/aqeaw/awards/intake-module/internal/server"
	"github.com/aqeaw/awards/intake-module/internal/service"
	"github.com/aqeaw/awards/intake-module/internal/storage/filestore"
)

func main() {
	// .env удобен для локальной разработки; в production файла нет
	_ = godotenv.Load()

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Intake Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("mongo_db", cfg.MongoDatabase),
	)

	// 3. MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	client, err := database.Connect(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("Ошибка подключения к MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Disconnect(client, logger)

	db := client.Database(cfg.MongoDatabase)
	appRepo := repository.NewApplicationRepository(db)

	// 4. Хранилище загруженных файлов
	store, err := filestore.New(cfg.UploadDir)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища файлов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Хранилище файлов готово", slog.String("dir", store.DataDir()))

	// 5. Переводы и рендерер уведомлений
	bundle := i18n.NewBundle(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	renderer, err := notify.NewRenderer(bundle)
	if err != nil {
		logger.Error("Ошибка инициализации рендерера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. SMTP-клиент
	dispatcher, err := mailer.New(cfg, logger)
	if err != nil {
		logger.Error("Ошибка инициализации SMTP-клиента", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 7. Сервисы
	stagingService := service.NewStagingService(cfg, store, logger)
	submissionService := service.NewSubmissionService(
		appRepo, renderer, dispatcher, store,
		cfg.MongoTimeout, cfg.SMTPTimeout, logger,
	)

	// 8. Обработчики
	appHandler, err := handlers.NewApplicationHandler(stagingService, submissionService, bundle, logger)
	if err != nil {
		logger.Error("Ошибка инициализации обработчика заявок", slog.String("error", err.Error()))
		os.Exit(1)
	}
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(client))

	// 9. HTTP-сервер (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, appHandler, healthHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Intake Module остановлен")
}
