// internal/app/system/mailer/mailer.go
package mailer

import (
	"time"

	"github.com/dalemusser/waffle/pantry/email"
)

// Email is one outbound message built by the templates. HTMLBody is optional.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Message converts e for the WAFFLE sender and queue.
func (e Email) Message() email.Message {
	return email.Message{
		To:       []string{e.To},
		Subject:  e.Subject,
		TextBody: e.TextBody,
		HTMLBody: e.HTMLBody,
	}
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
	Timeout  time.Duration // per-send SMTP deadline; zero uses the sender default
}

// NewSender builds the SMTP sender. Port 465 uses implicit TLS, every other
// port requires STARTTLS.
func NewSender(cfg Config) *email.Sender {
	return email.NewSender(email.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.User,
		Password:    cfg.Pass,
		FromAddress: cfg.From,
		FromName:    cfg.FromName,
		UseSSL:      cfg.Port == 465,
		Timeout:     cfg.Timeout,
	})
}
