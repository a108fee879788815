// Package notification sends transactional email. Delivery is best-effort:
// callers get a Receipt, never an error that could undo their own work.
package notification

import (
	"context"
	"errors"
	"fmt"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Receipt reports the outcome of one delivery attempt.
type Receipt struct {
	Success   bool
	MessageID string
	Err       error
}

// Dispatcher delivers messages through one transport.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) Receipt
}

// NotificationError is how a failed delivery is logged.
type NotificationError struct {
	Op  string
	To  string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %s to %s: %v", e.Op, e.To, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

var errUnsent = errors.New("dispatcher reported failure without an error")

func failed(err error) Receipt {
	return Receipt{Err: err}
}

// Config selects and configures a driver.
type Config struct {
	Driver    string
	From      string
	FromName  string
	SMTP      SMTPSettings
	AWSRegion string
}

// New builds the dispatcher named by cfg.Driver. settings may be nil; the smtp
// driver then always uses cfg.SMTP.
func New(cfg Config, settings SettingsSource) (Dispatcher, error) {
	switch cfg.Driver {
	case "smtp":
		fallback := cfg.SMTP
		if fallback.FromEmail == "" {
			fallback.FromEmail = cfg.From
		}
		if fallback.FromName == "" {
			fallback.FromName = cfg.FromName
		}
		return NewSMTPDispatcher(settings, fallback), nil
	case "ses":
		return NewSESDispatcher(cfg.AWSRegion, formatAddress(cfg.From, cfg.FromName))
	case "log", "":
		return NewLogDispatcher(), nil
	default:
		return nil, fmt.Errorf("notification: unknown driver %q", cfg.Driver)
	}
}

func formatAddress(email, name string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
