package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// SMTPConfig options for the SMTP notifier
type SMTPConfig struct {
	Host     string // relay host, e.g. "smtp.example.com"
	Port     int    // relay port, default 587
	Username string
	Password string
	From     string // sender address
	To       string // portfolio owner's address
}

// SMTP sends contact messages through a plain SMTP relay.
type SMTP struct {
	config SMTPConfig
	addr   string
	// send is swapped in tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP creates an SMTP notifier
func NewSMTP(config SMTPConfig) (*SMTP, error) {
	if config.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if config.From == "" || config.To == "" {
		return nil, errors.New("smtp from and to addresses are required")
	}
	if config.Port == 0 {
		config.Port = 587
	}

	return &SMTP{
		config: config,
		addr:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		send:   smtp.SendMail,
	}, nil
}

// ContactMessage relays one contact-form submission to the configured
// recipient. The visitor's address goes into Reply-To, never into From,
// so the relay's SPF alignment holds.
func (s *SMTP) ContactMessage(ctx context.Context, msg photofolio.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	subject := msg.Subject
	if subject == "" {
		subject = "New contact form message"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", s.config.To)
	if msg.Email != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(msg.Email))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n\n%s\n", msg.Name, msg.Email, msg.Body)

	if err := s.send(s.addr, auth, s.config.From, []string{s.config.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send contact message: %w", err)
	}
	return nil
}

// sanitizeHeader strips CR/LF so form input cannot inject extra headers.
func sanitizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\r", "")
	return strings.ReplaceAll(v, "\n", "")
}
