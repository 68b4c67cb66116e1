// Package mail envia emails transacionais via SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/vbeltrame/stockflow-api/pkg/config"
)

// Mailer envia emails com as credenciais SMTP configuradas. Com SMTP
// desativado, Send vira no-op (útil em desenvolvimento).
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer constrói o mailer.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send envia um email de texto simples.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if !m.cfg.Enabled() {
		return nil
	}

	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	if err := e.Send(m.cfg.Addr(), auth); err != nil {
		return fmt.Errorf("mailer: enviar email: %w", err)
	}
	return nil
}
