package smtpconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendingapi/internal/notification"
)

func TestService_UpdateKeepsPasswordWhenEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().GetActive(gomock.Any()).Return(Settings{ID: "s-1", Host: "old", Password: "secret"}, nil)
	mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *Settings) error {
		assert.Equal(t, "s-1", s.ID)
		assert.Equal(t, "smtp.example.com", s.Host)
		assert.Equal(t, "secret", s.Password)
		return nil
	})

	got, err := svc.Update(context.Background(), UpdateInput{Host: " smtp.example.com ", Port: 587, FromEmail: "noreply@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Password)
}

func TestService_UpdateFirstSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().GetActive(gomock.Any()).Return(Settings{}, ErrNotFound)
	mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *Settings) error {
		assert.Empty(t, s.ID)
		assert.Equal(t, "new-secret", s.Password)
		s.ID = "s-2"
		return nil
	})

	got, err := svc.Update(context.Background(), UpdateInput{Host: "smtp", Port: 25, Password: "new-secret"})
	require.NoError(t, err)
	assert.Equal(t, "s-2", got.ID)
}

func TestService_UpdateLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().GetActive(gomock.Any()).Return(Settings{}, errors.New("timeout"))

	_, err := svc.Update(context.Background(), UpdateInput{Host: "smtp", Port: 25})
	assert.Error(t, err)
}

func TestService_ActiveSMTPSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	var _ notification.SettingsSource = svc

	mockRepo.EXPECT().GetActive(gomock.Any()).Return(Settings{ID: "s-1", Host: "smtp", Port: 465, UseTLS: true, Password: "p"}, nil)
	s, ok, err := svc.ActiveSMTPSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, notification.SMTPSettings{Host: "smtp", Port: 465, UseTLS: true, Password: "p"}, s)

	mockRepo.EXPECT().GetActive(gomock.Any()).Return(Settings{}, ErrNotFound)
	_, ok, err = svc.ActiveSMTPSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	mockRepo.EXPECT().GetActive(gomock.Any()).Return(Settings{}, errors.New("db down"))
	_, _, err = svc.ActiveSMTPSettings(context.Background())
	assert.Error(t, err)
}
