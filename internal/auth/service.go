package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lendingapi/internal/platform/crypto"
	"lendingapi/internal/session"
	"lendingapi/internal/user"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotExtended is returned when the current session is no longer valid.
	ErrSessionNotExtended = errors.New("session not extended")
)

type Service struct {
	users     *user.Service
	sessions  *session.Service
	jwtSecret string
	now       func() time.Time
}

func NewService(users *user.Service, sessions *session.Service, jwtSecret string) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// LoginResult carries the raw session token; it is shown to the client once.
type LoginResult struct {
	Token       string
	AccessToken string
	Session     session.Session
	User        user.User
}

func (s *Service) Login(ctx context.Context, email, password string, md session.Metadata) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			crypto.BurnPasswordCheck(password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, sess, err := s.sessions.CreateSession(ctx, u.ID, u.Email, md, 0)
	if err != nil {
		return LoginResult{}, err
	}

	accessToken, err := s.accessToken(sess)
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now()
	if err := s.users.RecordLogin(ctx, u.ID, now); err != nil {
		log.Printf("record last login failed: user_id=%s error=%v", u.ID, err)
	} else {
		u.LastLoginAt = &now
	}

	return LoginResult{Token: token, AccessToken: accessToken, Session: sess, User: u}, nil
}

// accessToken mints the Bearer carrier for sess, or "" when Bearer is disabled.
func (s *Service) accessToken(sess session.Session) (string, error) {
	if s.jwtSecret == "" {
		return "", nil
	}
	token, err := crypto.GenerateToken(s.jwtSecret, sess.UserID, sess.UserEmail, sess.ID, sess.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// Logout revokes whatever session the credential names. Invalid or missing
// credentials are a no-op.
func (s *Service) Logout(ctx context.Context, c Credential) error {
	switch c.Kind {
	case CredentialSessionToken:
		return s.sessions.InvalidateSession(ctx, c.Value)
	case CredentialBearer:
		if s.jwtSecret == "" {
			return nil
		}
		claims, err := crypto.ParseToken(s.jwtSecret, c.Value)
		if err != nil {
			return nil
		}
		err = s.sessions.InvalidateSessionByID(ctx, claims.Subject, claims.SID)
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	default:
		return nil
	}
}

func (s *Service) LogoutAll(ctx context.Context, userID string) (int64, error) {
	return s.sessions.InvalidateAllSessions(ctx, userID)
}

// ExtendResult is the session state after a successful extension.
type ExtendResult struct {
	ExpiresAt   time.Time
	AccessToken string
}

func (s *Service) Extend(ctx context.Context, sessionID string, hours int) (ExtendResult, error) {
	ok, err := s.sessions.ExtendSessionID(ctx, sessionID, hours)
	if err != nil {
		return ExtendResult{}, err
	}
	if !ok {
		return ExtendResult{}, ErrSessionNotExtended
	}
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return ExtendResult{}, err
	}
	if sess == nil {
		return ExtendResult{}, ErrSessionNotExtended
	}
	accessToken, err := s.accessToken(*sess)
	if err != nil {
		return ExtendResult{}, err
	}
	return ExtendResult{ExpiresAt: sess.ExpiresAt, AccessToken: accessToken}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (user.User, error) {
	return s.users.GetByID(ctx, userID)
}
