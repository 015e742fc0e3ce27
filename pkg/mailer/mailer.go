// Package mailer sends plain-text or HTML email over SMTP with PLAIN auth.
// The defaults point at Mailtrap (smtp.mailtrap.io:2525), which is what development uses.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds the SMTP server and credentials.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
}

// sendFunc matches smtp.SendMail and is swapped out in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends email through one SMTP server.
type Mailer struct {
	cfg  Config
	send sendFunc
}

// New returns a Mailer for cfg. Host and Port default to Mailtrap.
func New(cfg Config) *Mailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.mailtrap.io"
	}
	if cfg.Port == "" {
		cfg.Port = "2525"
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// SendEmail sends one message to recipient.
//
// Returns an error if recipient, subject, sender or credentials are empty,
// or if the SMTP exchange fails.
func (m *Mailer) SendEmail(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if m.cfg.Sender == "" {
		return fmt.Errorf("sender email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("SMTP username and password must be provided")
	}

	msg := BuildMessage(recipient, m.cfg.Sender, subject, body)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.Sender, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildMessage renders the RFC 822 message. Bodies containing <html> or <p> are sent as HTML.
func BuildMessage(recipient, sender, subject, body string) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))
}
