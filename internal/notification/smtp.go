package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPSettings is the SMTP account used for outgoing mail.
type SMTPSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// SettingsSource supplies the currently active SMTP settings, if any are configured.
type SettingsSource interface {
	ActiveSMTPSettings(ctx context.Context) (SMTPSettings, bool, error)
}

// SMTPDispatcher sends through gomail. Settings are resolved per message so an
// admin edit takes effect without a restart.
type SMTPDispatcher struct {
	settings SettingsSource
	fallback SMTPSettings
	send     func(s SMTPSettings, m *gomail.Message) error
}

func NewSMTPDispatcher(settings SettingsSource, fallback SMTPSettings) *SMTPDispatcher {
	return &SMTPDispatcher{settings: settings, fallback: fallback, send: dialAndSend}
}

func dialAndSend(s SMTPSettings, m *gomail.Message) error {
	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	d.SSL = s.UseTLS && s.Port == 465
	return d.DialAndSend(m)
}

func (d *SMTPDispatcher) resolve(ctx context.Context) SMTPSettings {
	if d.settings == nil {
		return d.fallback
	}
	s, ok, err := d.settings.ActiveSMTPSettings(ctx)
	if err != nil {
		log.Printf("smtp settings lookup failed, using environment: error=%v", err)
		return d.fallback
	}
	if !ok {
		return d.fallback
	}
	if s.FromEmail == "" {
		s.FromEmail = d.fallback.FromEmail
	}
	if s.FromName == "" {
		s.FromName = d.fallback.FromName
	}
	return s
}

func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) Receipt {
	s := d.resolve(ctx)
	if s.Host == "" {
		return failed(errors.New("smtp host not configured"))
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(s.FromEmail))
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.FromEmail, s.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", msg.HTML)

	// gomail has no context support; abandon the dial when ctx ends.
	done := make(chan error, 1)
	go func() { done <- d.send(s, m) }()

	select {
	case err := <-done:
		if err != nil {
			return failed(err)
		}
		return Receipt{Success: true, MessageID: messageID}
	case <-ctx.Done():
		return failed(ctx.Err())
	}
}

func domainOf(email string) string {
	if _, domain, ok := strings.Cut(email, "@"); ok && domain != "" {
		return domain
	}
	return "localhost"
}
