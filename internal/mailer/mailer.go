// Пакет mailer — отправка уведомлений по SMTP.
// Одно письмо на заявку, без повторных попыток: доставка at-most-once,
// исход отправки фиксируется сервисным слоем.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/aqeaw/awards/intake-module/internal/config"
	"github.com/aqeaw/awards/intake-module/internal/notify"
)

// Mailer — SMTP-отправитель уведомлений.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
	logger *slog.Logger
}

// New создаёт SMTP-клиент по конфигурации.
// Отправитель — учётная запись SMTP, получатель — фиксированный
// адрес комитета из IM_NOTIFY_TO.
func New(cfg *config.Config, logger *slog.Logger) (*Mailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.SMTPTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания SMTP-клиента: %w", err)
	}

	return &Mailer{
		client: client,
		from:   cfg.SMTPUser,
		to:     cfg.NotifyTo,
		logger: logger.With(slog.String("component", "mailer")),
	}, nil
}

// Dispatch отправляет уведомление с вложениями.
// Соединение устанавливается на каждое письмо и закрывается после отправки.
func (m *Mailer) Dispatch(ctx context.Context, n *notify.Notification) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("некорректный адрес отправителя %q: %w", m.from, err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("некорректный адрес получателя %q: %w", m.to, err)
	}

	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextHTML, n.HTMLBody)

	for _, a := range n.Attachments {
		msg.AttachFile(a.Path, mail.WithFileName(a.Filename))
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}

	m.logger.Info("Уведомление отправлено",
		slog.String("to", m.to),
		slog.Int("attachments", len(n.Attachments)),
	)
	return nil
}
