package config

import (
	"log/slog"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// minimalEnvs возвращает минимальный набор обязательных переменных.
func minimalEnvs() map[string]string {
	return map[string]string{
		"IM_MONGO_URI":     "mongodb://localhost:27017",
		"IM_SMTP_USER":     "awards@aqeaw.com",
		"IM_SMTP_PASSWORD": "secret",
		"IM_NOTIFY_TO":     "committee@aqeaw.com",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.MongoDatabase != "intake" {
		t.Errorf("MongoDatabase = %q, ожидается intake", cfg.MongoDatabase)
	}
	if cfg.MongoTimeout != 10*time.Second {
		t.Errorf("MongoTimeout = %v, ожидается 10s", cfg.MongoTimeout)
	}
	if cfg.SMTPHost != "smtp-mail.outlook.com" {
		t.Errorf("SMTPHost = %q, ожидается smtp-mail.outlook.com", cfg.SMTPHost)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, ожидается 587", cfg.SMTPPort)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, ожидается uploads", cfg.UploadDir)
	}
	if cfg.MaxFileSize != 5*1024*1024 {
		t.Errorf("MaxFileSize = %d, ожидается 5 MiB", cfg.MaxFileSize)
	}
	if len(cfg.AllowedTypes) != 5 {
		t.Errorf("AllowedTypes: %d элементов, ожидается 5", len(cfg.AllowedTypes))
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	required := []string{"IM_MONGO_URI", "IM_SMTP_USER", "IM_SMTP_PASSWORD", "IM_NOTIFY_TO"}

	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			envs := minimalEnvs()
			envs[missing] = ""
			setEnvs(t, envs)

			if _, err := Load(); err == nil {
				t.Errorf("Load() без %s должен вернуть ошибку", missing)
			}
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	envs := minimalEnvs()
	envs["IM_PORT"] = "99999"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Error("Load() с портом вне диапазона должен вернуть ошибку")
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	envs := minimalEnvs()
	envs["IM_LOG_FORMAT"] = "xml"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Error("Load() с недопустимым форматом логов должен вернуть ошибку")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	envs := minimalEnvs()
	envs["IM_PORT"] = "9090"
	envs["IM_MAX_FILE_SIZE"] = "1048576"
	envs["IM_ALLOWED_TYPES"] = "application/pdf, image/png"
	envs["IM_SMTP_TIMEOUT"] = "45s"
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, ожидается 9090", cfg.Port)
	}
	if cfg.MaxFileSize != 1048576 {
		t.Errorf("MaxFileSize = %d, ожидается 1048576", cfg.MaxFileSize)
	}
	if len(cfg.AllowedTypes) != 2 {
		t.Errorf("AllowedTypes: %d элементов, ожидается 2", len(cfg.AllowedTypes))
	}
	if cfg.SMTPTimeout != 45*time.Second {
		t.Errorf("SMTPTimeout = %v, ожидается 45s", cfg.SMTPTimeout)
	}
}

func TestTypeAllowed(t *testing.T) {
	setEnvs(t, minimalEnvs())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	cases := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"image/jpeg", true},
		{"image/png", true},
		{"application/msword", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"IMAGE/PNG", true},
		{"application/pdf; charset=binary", true},
		{"text/html", false},
		{"application/x-msdownload", false},
		{"", false},
	}

	for _, c := range cases {
		if got := cfg.TypeAllowed(c.contentType); got != c.want {
			t.Errorf("TypeAllowed(%q) = %v, ожидается %v", c.contentType, got, c.want)
		}
	}
}
