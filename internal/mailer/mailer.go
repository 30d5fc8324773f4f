package mailer

import (
	"fmt"
	"net/smtp"
	"time"

	"kanbanflow/configs"
	"kanbanflow/pkg/logger"

	"go.uber.org/zap"
)

// Mailer mengirim email keluar lewat SMTP.
// Kalau SMTP_HOST kosong, pengiriman dilewati tanpa error — berguna untuk
// pengembangan lokal dan testing.
type Mailer struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	frontendURL string
}

func New(cfg configs.Config) *Mailer {
	return &Mailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUser,
		password:    cfg.SMTPPass,
		from:        cfg.SMTPFrom,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.host == "" {
		logger.SystemLogger.Info("SMTP not configured, skipping mail",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, body))

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}

// SendVerificationEmail mengirim tautan verifikasi pendaftaran.
func (m *Mailer) SendVerificationEmail(to, token, fullName string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify/%s", m.frontendURL, token)
	body := fmt.Sprintf(`
		<h1>KanbanFlow</h1>
		<h2>Welcome, %s!</h2>
		<p>Thanks for signing up. Please confirm your email address by opening the link below:</p>
		<p><a href="%s">Verify email</a></p>
		<p>If you did not register, just ignore this message.</p>`,
		fullName, verificationURL)
	return m.send(to, "Confirm your KanbanFlow registration", body)
}

// SendDeadlineEmail mengirim pengingat deadline untuk sebuah task.
func (m *Mailer) SendDeadlineEmail(to, taskTitle string, deadline time.Time) error {
	body := fmt.Sprintf(`
		<h1>KanbanFlow</h1>
		<h2>Deadline reminder</h2>
		<p>The deadline for task <strong>%s</strong> is coming up!</p>
		<p>Due: <strong>%s</strong></p>`,
		taskTitle, deadline.Format("2 January 2006 15:04"))
	return m.send(to, fmt.Sprintf("Deadline reminder: %s", taskTitle), body)
}
