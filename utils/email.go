package utils

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Manav-Sonawane/reclaim-backend/config"
)

// sendTimeout bounds a single SMTP delivery so one slow recipient cannot
// delay the rest of a notification batch.
const sendTimeout = 10 * time.Second

// SendEmail delivers a plain-text email. Errors are returned for logging
// only; callers on the notification path must not propagate them.
func SendEmail(to, subject, body string) error {
	cfg := config.App
	if cfg.SMTPHost == "" || cfg.EmailFrom == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.EmailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)

	// gomail has no dial timeout knob, so the send runs in its own
	// goroutine and is abandoned once the deadline passes.
	errCh := make(chan error, 1)
	go func() {
		errCh <- dialer.DialAndSend(m)
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(sendTimeout):
		return fmt.Errorf("sending email to %s timed out", to)
	}
}
