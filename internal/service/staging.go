// Пакет service — бизнес-логика Intake Module.
// staging.go — приём multipart-формы: потоковое чтение частей,
// контроль размера и типа файлов, запись во временное хранилище.
package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	apierrors "github.com/aqeaw/awards/intake-module/internal/api/errors"
	"github.com/aqeaw/awards/intake-module/internal/config"
	"github.com/aqeaw/awards/intake-module/internal/domain/model"
	"github.com/aqeaw/awards/intake-module/internal/storage/filestore"
)

// maxValueSize — потолок размера одного текстового поля формы.
const maxValueSize = 1 << 20 // 1 MiB

// StageError — ошибка приёма формы с HTTP-кодом.
type StageError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StagingService — приём multipart-форм.
type StagingService struct {
	cfg    *config.Config
	store  *filestore.FileStore
	logger *slog.Logger
}

// NewStagingService создаёт сервис приёма форм.
func NewStagingService(cfg *config.Config, store *filestore.FileStore, logger *slog.Logger) *StagingService {
	return &StagingService{
		cfg:    cfg,
		store:  store,
		logger: logger.With(slog.String("component", "staging_service")),
	}
}

// Stage читает multipart-запрос по частям в порядке поступления.
// Текстовые поля собираются в url.Values; файловые части проверяются
// на тип и размер и записываются во временное хранилище.
//
// Порядок файлов сохраняется: он определяет сопоставление файлов
// достижениям по индексу. При ошибке уже принятые файлы удаляются.
func (s *StagingService) Stage(r *http.Request) (url.Values, []model.StagedFile, *StageError) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, nil, &StageError{
			StatusCode: http.StatusBadRequest,
			Code:       apierrors.CodeValidationError,
			Message:    fmt.Sprintf("Некорректный multipart-запрос: %s", err.Error()),
		}
	}

	values := make(url.Values)
	var staged []model.StagedFile

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.cleanup(staged)
			return nil, nil, &StageError{
				StatusCode: http.StatusBadRequest,
				Code:       apierrors.CodeValidationError,
				Message:    fmt.Sprintf("Ошибка чтения части формы: %s", err.Error()),
			}
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}

		// Текстовое поле
		if part.FileName() == "" {
			data, err := io.ReadAll(io.LimitReader(part, maxValueSize))
			part.Close()
			if err != nil {
				s.cleanup(staged)
				return nil, nil, &StageError{
					StatusCode: http.StatusBadRequest,
					Code:       apierrors.CodeValidationError,
					Message:    fmt.Sprintf("Ошибка чтения поля %s: %s", name, err.Error()),
				}
			}
			values.Add(name, string(data))
			continue
		}

		// Файловая часть
		file, stageErr := s.stageFile(part)
		part.Close()
		if stageErr != nil {
			s.cleanup(staged)
			return nil, nil, stageErr
		}
		staged = append(staged, *file)
	}

	return values, staged, nil
}

// stageFile проверяет тип и размер файловой части и пишет её на диск.
func (s *StagingService) stageFile(part *multipart.Part) (*model.StagedFile, *StageError) {
	contentType := part.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !s.cfg.TypeAllowed(contentType) {
		return nil, &StageError{
			StatusCode: http.StatusBadRequest,
			Code:       apierrors.CodeUnsupportedType,
			Message:    fmt.Sprintf("Недопустимый тип файла %q (файл %s)", contentType, part.FileName()),
		}
	}

	// Читаем не больше лимита + 1 байт: лишний байт означает превышение
	limited := io.LimitReader(part, s.cfg.MaxFileSize+1)
	result, err := s.store.SaveFile(limited, part.FileName())
	if err != nil {
		return nil, &StageError{
			StatusCode: http.StatusInternalServerError,
			Code:       apierrors.CodeInternalError,
			Message:    fmt.Sprintf("Ошибка сохранения файла %s: %s", part.FileName(), err.Error()),
		}
	}

	if result.Size > s.cfg.MaxFileSize {
		_ = s.store.DeleteFile(result.StoragePath)
		return nil, &StageError{
			StatusCode: http.StatusRequestEntityTooLarge,
			Code:       apierrors.CodeFileTooLarge,
			Message: fmt.Sprintf("Файл %s превышает максимум %d байт",
				part.FileName(), s.cfg.MaxFileSize),
		}
	}

	return &model.StagedFile{
		FieldName:        part.FormName(),
		OriginalFilename: part.FileName(),
		StoragePath:      result.StoragePath,
		FullPath:         result.FullPath,
		Size:             result.Size,
		ContentType:      contentType,
	}, nil
}

// cleanup удаляет уже принятые файлы при ошибке приёма формы.
func (s *StagingService) cleanup(staged []model.StagedFile) {
	for _, f := range staged {
		if err := s.store.DeleteFile(f.StoragePath); err != nil {
			s.logger.Warn("Не удалось удалить файл после ошибки приёма",
				slog.String("path", f.StoragePath),
				slog.String("error", err.Error()),
			)
		}
	}
}
