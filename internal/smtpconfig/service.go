package smtpconfig

import (
	"context"
	"errors"
	"strings"

	"lendingapi/internal/notification"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the active settings, or ErrNotFound when none have been saved.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.GetActive(ctx)
}

// UpdateInput replaces the active settings. An empty Password keeps the stored one.
type UpdateInput struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (Settings, error) {
	current, err := s.repo.GetActive(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Settings{}, err
	}

	next := Settings{
		ID:        current.ID,
		Host:      strings.TrimSpace(in.Host),
		Port:      in.Port,
		Username:  strings.TrimSpace(in.Username),
		Password:  in.Password,
		FromEmail: strings.TrimSpace(in.FromEmail),
		FromName:  strings.TrimSpace(in.FromName),
		UseTLS:    in.UseTLS,
	}
	if next.Password == "" {
		next.Password = current.Password
	}
	if err := s.repo.Save(ctx, &next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

// ActiveSMTPSettings lets the notification SMTP driver read the stored account.
func (s *Service) ActiveSMTPSettings(ctx context.Context) (notification.SMTPSettings, bool, error) {
	st, err := s.repo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notification.SMTPSettings{}, false, nil
		}
		return notification.SMTPSettings{}, false, err
	}
	return notification.SMTPSettings{
		Host:      st.Host,
		Port:      st.Port,
		Username:  st.Username,
		Password:  st.Password,
		FromEmail: st.FromEmail,
		FromName:  st.FromName,
		UseTLS:    st.UseTLS,
	}, true, nil
}
