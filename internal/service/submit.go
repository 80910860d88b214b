// submit.go — конвейер обработки заявки:
// сохранение → рендеринг уведомления → отправка → очистка файлов.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aqeaw/awards/intake-module/internal/domain/model"
	"github.com/aqeaw/awards/intake-module/internal/notify"
	"github.com/aqeaw/awards/intake-module/internal/repository"
	"github.com/aqeaw/awards/intake-module/internal/storage/filestore"
)

// Метрики конвейера заявок.
var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "im_submissions_total",
		Help: "Количество обработанных заявок по исходам (saved, saved_not_notified, failed).",
	}, []string{"outcome"})
	submissionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "im_submission_duration_seconds",
		Help:    "Длительность обработки заявки.",
		Buckets: prometheus.DefBuckets,
	})
)

// Dispatcher — отправка готового уведомления.
// Реализуется mailer.Mailer; в тестах подменяется фейком.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *notify.Notification) error
}

// Result — исход обработки заявки.
type Result struct {
	// ID — идентификатор сохранённого документа.
	ID string
	// Notified — удалась ли отправка уведомления.
	Notified bool
	// NotifyErr — ошибка отправки (nil при Notified == true).
	NotifyErr error
}

// SubmissionService — конвейер обработки одной заявки.
// Шаги строго последовательны; повторных попыток нет.
type SubmissionService struct {
	repo         repository.ApplicationRepository
	renderer     *notify.Renderer
	dispatcher   Dispatcher
	store        *filestore.FileStore
	mongoTimeout time.Duration
	smtpTimeout  time.Duration
	logger       *slog.Logger
}

// NewSubmissionService создаёт конвейер обработки заявок.
func NewSubmissionService(
	repo repository.ApplicationRepository,
	renderer *notify.Renderer,
	dispatcher Dispatcher,
	store *filestore.FileStore,
	mongoTimeout time.Duration,
	smtpTimeout time.Duration,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		repo:         repo,
		renderer:     renderer,
		dispatcher:   dispatcher,
		store:        store,
		mongoTimeout: mongoTimeout,
		smtpTimeout:  smtpTimeout,
		logger:       logger.With(slog.String("component", "submission_service")),
	}
}

// Process выполняет конвейер для собранной заявки.
//
// Ошибка сохранения прерывает конвейер (err != nil). Ошибка отправки
// уведомления не прерывает: заявка уже сохранена, исход фиксируется
// в Result.Notified/NotifyErr. Очистка файлов выполняется после попытки
// отправки независимо от её исхода и охватывает все принятые файлы,
// включая не привязанные к достижениям.
func (s *SubmissionService) Process(ctx context.Context, app *model.Application, staged []model.StagedFile) (*Result, error) {
	start := time.Now()

	// 1. Сохранение
	insertCtx, cancel := context.WithTimeout(ctx, s.mongoTimeout)
	id, err := s.repo.Insert(insertCtx, app)
	cancel()
	if err != nil {
		submissionsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("сохранение заявки: %w", err)
	}

	s.logger.Info("Заявка сохранена",
		slog.String("id", id),
		slog.String("form_kind", app.FormKind),
		slog.Int("achievements", len(app.Achievements)),
	)

	result := &Result{ID: id}

	// 2. Рендеринг и отправка уведомления
	notification, renderErr := s.renderer.Render(app)
	if renderErr != nil {
		result.NotifyErr = renderErr
	} else {
		dispatchCtx, cancel := context.WithTimeout(ctx, s.smtpTimeout)
		result.NotifyErr = s.dispatcher.Dispatch(dispatchCtx, notification)
		cancel()
	}
	result.Notified = result.NotifyErr == nil

	if result.Notified {
		submissionsTotal.WithLabelValues("saved").Inc()
	} else {
		submissionsTotal.WithLabelValues("saved_not_notified").Inc()
		s.logger.Error("Заявка сохранена, но уведомление не отправлено",
			slog.String("id", id),
			slog.String("error", result.NotifyErr.Error()),
		)
	}

	// 3. Очистка всех принятых файлов запроса
	s.cleanupStaged(staged)

	submissionDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// cleanupStaged удаляет принятые файлы. Ошибки удаления только логируются
// и никогда не влияют на исход обработки.
func (s *SubmissionService) cleanupStaged(staged []model.StagedFile) {
	for _, f := range staged {
		if err := s.store.DeleteFile(f.StoragePath); err != nil {
			s.logger.Warn("Не удалось удалить временный файл",
				slog.String("path", f.StoragePath),
				slog.String("error", err.Error()),
			)
		}
	}
}
