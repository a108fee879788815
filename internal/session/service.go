package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lendingapi/internal/platform/crypto"
)

// Service is the sole authority over session lifecycle.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(repo Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to sessions created without an explicit one.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// CreateSession persists a new active session and returns the raw token. The token
// is handed to the client once and only its hash is stored.
func (s *Service) CreateSession(ctx context.Context, userID, userEmail string, md Metadata, ttl time.Duration) (string, Session, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	token, err := crypto.NewOpaqueToken()
	if err != nil {
		return "", Session{}, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	sess := Session{
		TokenHash:  crypto.HashToken(token),
		UserID:     userID,
		UserEmail:  userEmail,
		IPAddress:  md.IPAddress,
		UserAgent:  md.UserAgent,
		DeviceInfo: md.DeviceInfo,
		IsActive:   true,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := s.repo.Create(ctx, &sess); err != nil {
		return "", Session{}, fmt.Errorf("create session: %w", err)
	}
	sess.LastAccessedAt = now
	return token, sess, nil
}

// ValidateSession returns the session behind token, or nil when it is absent,
// inactive or expired. The three cases are not distinguished.
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	return s.ValidateSessionFromIP(ctx, token, "")
}

// ValidateSessionFromIP is ValidateSession with the caller's current IP, used only to
// log an address change.
func (s *Service) ValidateSessionFromIP(ctx context.Context, token, ip string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	sess, err := s.repo.GetByTokenHash(ctx, crypto.HashToken(token))
	return s.accept(ctx, sess, err, ip)
}

// ValidateSessionID validates by row id. It backs the Bearer carrier, whose claims
// name the session rather than carry its token.
func (s *Service) ValidateSessionID(ctx context.Context, sessionID, ip string) (*Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	sess, err := s.repo.GetByID(ctx, sessionID)
	return s.accept(ctx, sess, err, ip)
}

func (s *Service) accept(ctx context.Context, sess Session, err error, ip string) (*Session, error) {
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	now := s.now()
	if !sess.ValidAt(now) {
		return nil, nil
	}

	if ip != "" && sess.IPAddress != "" && ip != sess.IPAddress {
		log.Printf("session ip changed: session_id=%s user_id=%s stored_ip=%s current_ip=%s", sess.ID, sess.UserID, sess.IPAddress, ip)
	}

	if err := s.repo.Touch(ctx, sess.ID, now); err != nil {
		log.Printf("session touch failed: session_id=%s error=%v", sess.ID, err)
	} else {
		sess.LastAccessedAt = now
	}
	return &sess, nil
}

// InvalidateSession deactivates the session behind token. Unknown or already
// invalid tokens are a no-op.
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sess, err := s.repo.GetByTokenHash(ctx, crypto.HashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	if !sess.IsActive {
		return nil
	}
	if err := s.repo.Deactivate(ctx, sess.ID); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}

// InvalidateSessionByID revokes one of userID's sessions. Sessions belonging to
// someone else report ErrNotFound.
func (s *Service) InvalidateSessionByID(ctx context.Context, userID, sessionID string) error {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != userID {
		return ErrNotFound
	}
	if !sess.IsActive {
		return nil
	}
	if err := s.repo.Deactivate(ctx, sess.ID); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}

// InvalidateAllSessions logs userID out everywhere and reports how many sessions were active.
func (s *Service) InvalidateAllSessions(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeactivateAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("deactivate sessions: %w", err)
	}
	return n, nil
}

// ExtendSession pushes expiresAt forward by hours. It reports false, changing
// nothing, when the session is not currently valid or hours is not positive.
func (s *Service) ExtendSession(ctx context.Context, token string, hours int) (bool, error) {
	if token == "" || hours <= 0 {
		return false, nil
	}
	sess, err := s.repo.GetByTokenHash(ctx, crypto.HashToken(token))
	return s.extend(ctx, sess, err, hours)
}

// ExtendSessionID is ExtendSession addressed by row id.
func (s *Service) ExtendSessionID(ctx context.Context, sessionID string, hours int) (bool, error) {
	if sessionID == "" || hours <= 0 {
		return false, nil
	}
	sess, err := s.repo.GetByID(ctx, sessionID)
	return s.extend(ctx, sess, err, hours)
}

func (s *Service) extend(ctx context.Context, sess Session, err error, hours int) (bool, error) {
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load session: %w", err)
	}
	now := s.now()
	if !sess.ValidAt(now) {
		return false, nil
	}
	ok, err := s.repo.ExtendActive(ctx, sess.ID, sess.ExpiresAt.Add(time.Duration(hours)*time.Hour), now)
	if err != nil {
		return false, fmt.Errorf("extend session: %w", err)
	}
	return ok, nil
}

// GetSession returns a currently valid session by id without touching it.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.ValidAt(s.now()) {
		return nil, nil
	}
	return &sess, nil
}

// ListActive returns userID's currently valid sessions, most recently used first.
func (s *Service) ListActive(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	now := s.now()
	out := make([]Session, 0, len(rows))
	for _, sess := range rows {
		if sess.ValidAt(now) {
			out = append(out, sess)
		}
	}
	return out, nil
}

// CleanupExpired deletes rows that validation already treats as absent.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteInvalid(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return n, nil
}
