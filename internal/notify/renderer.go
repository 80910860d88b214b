// Пакет notify — формирование письма-уведомления о новой заявке.
// Рендерит двуязычную табличную сводку через html/template
// (с экранированием пользовательского текста) и отбирает
// приложенные файлы достижений как вложения письма.
package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/aqeaw/awards/intake-module/internal/domain/model"
	"github.com/aqeaw/awards/intake-module/internal/notify/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

// Attachment — вложение письма: отображаемое имя и путь к файлу на диске.
type Attachment struct {
	// Filename — имя файла, которое увидит получатель.
	Filename string
	// Path — путь к файлу для чтения содержимого.
	Path string
}

// Notification — готовое к отправке уведомление.
type Notification struct {
	// Subject — тема письма (двуязычная).
	Subject string
	// HTMLBody — HTML-тело письма.
	HTMLBody string
	// Attachments — вложения: по одному на достижение с файлом.
	Attachments []Attachment
}

// Renderer — рендерер уведомлений. Шаблон и каталоги переводов
// загружаются один раз; повторный рендеринг той же заявки
// даёт побайтно идентичный результат.
type Renderer struct {
	bundle *i18n.Bundle
	tmpl   *template.Template
}

// NewRenderer создаёт рендерер поверх загруженного Bundle.
func NewRenderer(bundle *i18n.Bundle) (*Renderer, error) {
	funcs := template.FuncMap{
		// label — двуязычная подпись "english / العربية"
		"label": bundle.Label,
		// orNA — значение или заглушка для отсутствующих полей
		"orNA": func(s string) string {
			if s == "" {
				return bundle.Label("value.missing")
			}
			return s
		},
	}

	tmpl, err := template.New("email.html").Funcs(funcs).ParseFS(templateFS, "templates/email.html")
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга шаблона письма: %w", err)
	}

	return &Renderer{
		bundle: bundle,
		tmpl:   tmpl,
	}, nil
}

// emailData — данные для шаблона письма.
type emailData struct {
	App *model.Application
	// IsOrganization управляет секцией организации.
	IsOrganization bool
	// IsReferral управляет секцией рекомендателя.
	IsReferral bool
}

// Render формирует уведомление по заявке: тело письма и список вложений.
// Секция организации включается только при FormKind == organization,
// секция рекомендателя — только при SubmitterKind == referral.
func (r *Renderer) Render(app *model.Application) (*Notification, error) {
	data := emailData{
		App:            app,
		IsOrganization: app.FormKind == model.FormKindOrganization,
		IsReferral:     app.SubmitterKind == model.SubmitterReferral,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("ошибка рендеринга письма: %w", err)
	}

	// Вложения: по одному на достижение с файлом, в порядке достижений
	var attachments []Attachment
	for _, a := range app.Achievements {
		if !a.HasFile() {
			continue
		}
		attachments = append(attachments, Attachment{
			Filename: filepath.Base(a.FilePath),
			Path:     a.FilePath,
		})
	}

	return &Notification{
		Subject:     r.bundle.Label("email.subject"),
		HTMLBody:    buf.String(),
		Attachments: attachments,
	}, nil
}
