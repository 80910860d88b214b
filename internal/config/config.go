// Пакет config — загрузка и валидация конфигурации Intake Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Intake Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Разрешённый CORS origin для формы подачи заявок
	CORSOrigin string

	// --- MongoDB ---

	// Строка подключения к MongoDB
	MongoURI string
	// Имя базы данных
	MongoDatabase string
	// Таймаут операций с MongoDB (подключение, запись)
	MongoTimeout time.Duration

	// --- SMTP ---

	// Хост SMTP-сервера
	SMTPHost string
	// Порт SMTP-сервера
	SMTPPort int
	// Учётная запись SMTP (она же адрес отправителя)
	SMTPUser string
	// Пароль SMTP
	SMTPPassword string
	// Таймаут отправки письма
	SMTPTimeout time.Duration
	// Адрес получателя уведомлений о новых заявках
	NotifyTo string

	// --- Загрузка файлов ---

	// Директория временного хранения загруженных файлов
	UploadDir string
	// Максимальный размер одного файла в байтах
	MaxFileSize int64
	// Разрешённые MIME-типы загружаемых файлов
	AllowedTypes []string

	// --- Статика ---

	// Директория статических файлов формы
	PublicDir string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Значения по умолчанию для разрешённых типов файлов: документы и
// распространённые форматы изображений.
const defaultAllowedTypes = "application/pdf,image/jpeg,image/png," +
	"application/msword," +
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// IM_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("IM_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("IM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("IM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// IM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("IM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("IM_LOG_LEVEL: %w", err)
	}

	// IM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("IM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("IM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// IM_CORS_ORIGIN — разрешённый origin (по умолчанию сайт премии)
	cfg.CORSOrigin = getEnvDefault("IM_CORS_ORIGIN", "https://aqeaw.com/")

	// --- MongoDB ---

	// IM_MONGO_URI — обязательный
	cfg.MongoURI, err = getEnvRequired("IM_MONGO_URI")
	if err != nil {
		return nil, err
	}

	// IM_MONGO_DATABASE — имя БД (по умолчанию intake)
	cfg.MongoDatabase = getEnvDefault("IM_MONGO_DATABASE", "intake")

	// IM_MONGO_TIMEOUT — таймаут операций (по умолчанию 10s)
	cfg.MongoTimeout, err = getEnvDuration("IM_MONGO_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IM_MONGO_TIMEOUT: %w", err)
	}

	// --- SMTP ---

	// IM_SMTP_HOST — хост SMTP (по умолчанию провайдер Outlook)
	cfg.SMTPHost = getEnvDefault("IM_SMTP_HOST", "smtp-mail.outlook.com")

	// IM_SMTP_PORT — порт SMTP (по умолчанию 587, STARTTLS)
	cfg.SMTPPort, err = getEnvInt("IM_SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("IM_SMTP_PORT: %w", err)
	}

	// IM_SMTP_USER — обязательный
	cfg.SMTPUser, err = getEnvRequired("IM_SMTP_USER")
	if err != nil {
		return nil, err
	}

	// IM_SMTP_PASSWORD — обязательный
	cfg.SMTPPassword, err = getEnvRequired("IM_SMTP_PASSWORD")
	if err != nil {
		return nil, err
	}

	// IM_SMTP_TIMEOUT — таймаут отправки письма (по умолчанию 30s)
	cfg.SMTPTimeout, err = getEnvDuration("IM_SMTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IM_SMTP_TIMEOUT: %w", err)
	}

	// IM_NOTIFY_TO — обязательный адрес получателя уведомлений
	cfg.NotifyTo, err = getEnvRequired("IM_NOTIFY_TO")
	if err != nil {
		return nil, err
	}

	// --- Загрузка файлов ---

	// IM_UPLOAD_DIR — директория загрузок (по умолчанию uploads)
	cfg.UploadDir = getEnvDefault("IM_UPLOAD_DIR", "uploads")

	// IM_MAX_FILE_SIZE — максимальный размер файла (по умолчанию 5 MiB)
	cfg.MaxFileSize, err = getEnvInt64("IM_MAX_FILE_SIZE", 5*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("IM_MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize < 1 {
		return nil, fmt.Errorf("IM_MAX_FILE_SIZE: значение %d должно быть положительным", cfg.MaxFileSize)
	}

	// IM_ALLOWED_TYPES — разрешённые MIME-типы через запятую
	cfg.AllowedTypes = parseCSV(getEnvDefault("IM_ALLOWED_TYPES", defaultAllowedTypes))
	if len(cfg.AllowedTypes) == 0 {
		return nil, fmt.Errorf("IM_ALLOWED_TYPES: список разрешённых типов пуст")
	}

	// --- Статика ---

	// IM_PUBLIC_DIR — директория статики (по умолчанию public)
	cfg.PublicDir = getEnvDefault("IM_PUBLIC_DIR", "public")

	// --- Graceful shutdown ---

	// IM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("IM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// TypeAllowed проверяет, входит ли MIME-тип в список разрешённых.
// Параметры типа (например "; charset=...") не учитываются.
func (c *Config) TypeAllowed(contentType string) bool {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	for _, t := range c.AllowedTypes {
		if strings.ToLower(t) == contentType {
			return true
		}
	}
	return false
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
