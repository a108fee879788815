package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type staticSettings struct {
	settings SMTPSettings
	ok       bool
	err      error
}

func (s staticSettings) ActiveSMTPSettings(context.Context) (SMTPSettings, bool, error) {
	return s.settings, s.ok, s.err
}

func TestSMTPDispatcher_UsesActiveSettings(t *testing.T) {
	fallback := SMTPSettings{Host: "env.smtp", Port: 587, FromEmail: "noreply@example.com", FromName: "Lending Team"}
	source := staticSettings{settings: SMTPSettings{Host: "db.smtp", Port: 2525}, ok: true}
	d := NewSMTPDispatcher(source, fallback)

	var used SMTPSettings
	var sent *gomail.Message
	d.send = func(s SMTPSettings, m *gomail.Message) error {
		used = s
		sent = m
		return nil
	}

	r := d.Send(context.Background(), Message{To: "budi@example.com", Subject: "Hello", HTML: "<p>hi</p>"})
	require.True(t, r.Success)
	assert.Equal(t, "db.smtp", used.Host)
	assert.Equal(t, "noreply@example.com", used.FromEmail)
	assert.Equal(t, []string{"budi@example.com"}, sent.GetHeader("To"))
	assert.Contains(t, r.MessageID, "@example.com>")
}

func TestSMTPDispatcher_FallsBackToEnvironment(t *testing.T) {
	fallback := SMTPSettings{Host: "env.smtp", Port: 587, FromEmail: "noreply@example.com"}

	for name, source := range map[string]SettingsSource{
		"no row":        staticSettings{ok: false},
		"lookup failed": staticSettings{err: errors.New("db down")},
		"no source":     nil,
	} {
		t.Run(name, func(t *testing.T) {
			d := NewSMTPDispatcher(source, fallback)
			var used SMTPSettings
			d.send = func(s SMTPSettings, _ *gomail.Message) error {
				used = s
				return nil
			}

			r := d.Send(context.Background(), Message{To: "a@example.com"})
			assert.True(t, r.Success)
			assert.Equal(t, "env.smtp", used.Host)
		})
	}
}

func TestSMTPDispatcher_Failures(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		d := NewSMTPDispatcher(nil, SMTPSettings{})
		r := d.Send(context.Background(), Message{To: "a@example.com"})
		assert.False(t, r.Success)
		assert.Error(t, r.Err)
	})

	t.Run("transport error", func(t *testing.T) {
		d := NewSMTPDispatcher(nil, SMTPSettings{Host: "smtp", Port: 25})
		d.send = func(SMTPSettings, *gomail.Message) error { return errors.New("535 auth failed") }
		r := d.Send(context.Background(), Message{To: "a@example.com"})
		assert.False(t, r.Success)
		assert.EqualError(t, r.Err, "535 auth failed")
	})

	t.Run("timeout", func(t *testing.T) {
		d := NewSMTPDispatcher(nil, SMTPSettings{Host: "smtp", Port: 25})
		release := make(chan struct{})
		defer close(release)
		d.send = func(SMTPSettings, *gomail.Message) error {
			<-release
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		r := d.Send(ctx, Message{To: "a@example.com"})
		assert.False(t, r.Success)
		assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
	})
}

type fakeSES struct {
	sesiface.SESAPI
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmailWithContext(_ aws.Context, in *ses.SendEmailInput, _ ...request.Option) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

func TestSESDispatcher_Send(t *testing.T) {
	client := &fakeSES{}
	d := &SESDispatcher{client: client, source: "Lending Team <noreply@example.com>"}

	r := d.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.True(t, r.Success)
	assert.Equal(t, "ses-123", r.MessageID)
	assert.Equal(t, "Lending Team <noreply@example.com>", aws.StringValue(client.input.Source))
	assert.Equal(t, "a@example.com", aws.StringValue(client.input.Destination.ToAddresses[0]))
	assert.Equal(t, "<p>x</p>", aws.StringValue(client.input.Message.Body.Html.Data))

	client.err = errors.New("MessageRejected")
	r = d.Send(context.Background(), Message{To: "a@example.com"})
	assert.False(t, r.Success)
}

func TestNew_SelectsDriver(t *testing.T) {
	d, err := New(Config{Driver: "log"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LogDispatcher{}, d)

	d, err = New(Config{Driver: "smtp", From: "noreply@example.com", SMTP: SMTPSettings{Host: "h"}}, nil)
	require.NoError(t, err)
	smtp, ok := d.(*SMTPDispatcher)
	require.True(t, ok)
	assert.Equal(t, "noreply@example.com", smtp.fallback.FromEmail)

	_, err = New(Config{Driver: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}
