// Пакет handlers — HTTP обработчики Intake Module.
// applications.go — приём заявок: POST /submit-application.
package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	apierrors "github.com/aqeaw/awards/intake-module/internal/api/errors"
	"github.com/aqeaw/awards/intake-module/internal/notify/i18n"
	"github.com/aqeaw/awards/intake-module/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ApplicationHandler — обработчик приёма заявок.
type ApplicationHandler struct {
	staging     *service.StagingService
	submissions *service.SubmissionService
	bundle      *i18n.Bundle
	confirmTmpl *template.Template
	logger      *slog.Logger
}

// NewApplicationHandler создаёт обработчик приёма заявок.
func NewApplicationHandler(
	staging *service.StagingService,
	submissions *service.SubmissionService,
	bundle *i18n.Bundle,
	logger *slog.Logger,
) (*ApplicationHandler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/confirm.html")
	if err != nil {
		return nil, fmt.Errorf("парсинг шаблона подтверждения: %w", err)
	}

	return &ApplicationHandler{
		staging:     staging,
		submissions: submissions,
		bundle:      bundle,
		confirmTmpl: tmpl,
		logger:      logger.With(slog.String("component", "application_handler")),
	}, nil
}

// SubmitApplication — POST /submit-application.
// Принимает multipart-форму, нормализует достижения, сохраняет заявку
// в MongoDB и отправляет email-уведомление с вложениями.
//
// 200 — заявка сохранена и уведомление отправлено (HTML-подтверждение).
// 400/413 — ошибка формы (тип или размер файла, битый multipart).
// 500 SAVED_NOT_NOTIFIED — заявка сохранена, уведомление не отправлено.
// 500 INTERNAL_ERROR — заявка не сохранена.
func (h *ApplicationHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	values, staged, stageErr := h.staging.Stage(r)
	if stageErr != nil {
		h.logger.Warn("Форма отклонена",
			slog.String("code", stageErr.Code),
			slog.String("error", stageErr.Message),
		)
		apierrors.WriteError(w, stageErr.StatusCode, stageErr.Code, stageErr.Message)
		return
	}

	achievements := service.NormalizeAchievements(values, staged)
	app := service.AssembleApplication(values, achievements)

	result, err := h.submissions.Process(r.Context(), app, staged)
	if err != nil {
		h.logger.Error("Заявка не сохранена", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось сохранить заявку, попробуйте позже")
		return
	}

	if !result.Notified {
		apierrors.SavedNotNotified(w,
			fmt.Sprintf("Заявка %s сохранена, но уведомление не отправлено", result.ID))
		return
	}

	h.renderConfirmation(w, r)
}

// confirmData — данные страницы подтверждения.
type confirmData struct {
	Lang  string
	Dir   string
	Title string
	Body  string
	OK    string
}

// renderConfirmation отдаёт локализованную HTML-страницу подтверждения.
// Язык берётся из контекста запроса (i18n middleware).
func (h *ApplicationHandler) renderConfirmation(w http.ResponseWriter, r *http.Request) {
	lang := i18n.LangFromContext(r.Context())

	dir := "ltr"
	if lang == "ar" {
		dir = "rtl"
	}

	data := confirmData{
		Lang:  lang,
		Dir:   dir,
		Title: h.bundle.Translate(lang, "confirm.title"),
		Body:  h.bundle.Translate(lang, "confirm.body"),
		OK:    h.bundle.Translate(lang, "confirm.ok"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.confirmTmpl.Execute(w, data); err != nil {
		h.logger.Error("Ошибка рендеринга страницы подтверждения",
			slog.String("error", err.Error()),
		)
	}
}
