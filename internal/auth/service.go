package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"event-management-system/backend/internal/audit"
	auditdomain "event-management-system/backend/internal/audit/domain"
	"event-management-system/backend/internal/authority"
	"event-management-system/backend/internal/registry"
	"event-management-system/backend/internal/security"
	userdomain "event-management-system/backend/internal/user/domain"
)

// Sentinel errors for lifecycle operations; the transport boundary maps them
// to 401/400-class responses. None are retried here.
var (
	// ErrInvalidCredentials is deliberately generic: it never reveals whether
	// the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token session revoked")
	ErrSubjectMismatch    = errors.New("token subject mismatch")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrSamePassword       = errors.New("new password must differ from the current password")
)

// UserStore is the minimal user access the lifecycle service needs.
// *repository.PostgresRepository satisfies this.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// LoginResult holds the outcome of a successful Login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the access token expiry; the refresh token outlives it.
	ExpiresAt    time.Time
	SubjectID    int64
	Capabilities authority.CapabilitySet
}

// RefreshResult holds the access token minted by Refresh. The refresh token
// itself is not rotated and keeps its own session until TTL or logout.
type RefreshResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Service orchestrates the session lifecycle: it is the only writer to the
// session registry (register on issue, revoke on logout).
type Service struct {
	users      UserStore
	hasher     *security.Hasher
	tokens     *security.TokenProvider
	sessions   registry.Registry
	resolver   CapabilityResolver
	recorder   audit.Recorder
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService returns a lifecycle Service with the given dependencies.
// recorder may be nil to disable audit recording.
func NewService(
	users UserStore,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	sessions registry.Registry,
	resolver CapabilityResolver,
	recorder audit.Recorder,
	accessTTL, refreshTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		sessions:   sessions,
		resolver:   resolver,
		recorder:   recorder,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login verifies the credentials, issues an access and a refresh token with
// independent session ids, registers both sessions, and returns the tokens
// with the subject's resolved capabilities. All credential failures collapse
// into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, accessSession, accessExp, err := s.tokens.Issue(user.ID, security.TokenClassAccess, user.RoleName, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshSession, _, err := s.tokens.Issue(user.ID, security.TokenClassRefresh, "", s.refreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Register(ctx, accessSession, user.ID, s.accessTTL); err != nil {
		return nil, err
	}
	if err := s.sessions.Register(ctx, refreshSession, user.ID, s.refreshTTL); err != nil {
		return nil, err
	}
	caps, err := s.resolver.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	audit.RecordAsync(s.recorder, user.ID, auditdomain.EventUserLogin, accessSession, "")
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
		SubjectID:    user.ID,
		Capabilities: caps,
	}, nil
}

// Refresh exchanges a valid, registered refresh token for a fresh access token
// with its own session. The refresh session is left untouched: it stays valid
// until its own TTL or an explicit logout of the refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.Class != security.TokenClassRefresh {
		return nil, ErrTokenInvalid
	}
	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	cachedSubject, ok, err := s.sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenRevoked
	}
	if cachedSubject != subjectID {
		audit.RecordAsync(s.recorder, cachedSubject, auditdomain.EventSecurityAlert, claims.SessionID, "refresh token subject mismatch")
		return nil, ErrSubjectMismatch
	}

	roleHint := ""
	if user, err := s.users.GetByID(ctx, subjectID); err == nil && user != nil {
		roleHint = user.RoleName
	}
	accessToken, accessSession, accessExp, err := s.tokens.Issue(subjectID, security.TokenClassAccess, roleHint, s.accessTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Register(ctx, accessSession, subjectID, s.accessTTL); err != nil {
		return nil, err
	}

	audit.RecordAsync(s.recorder, subjectID, auditdomain.EventTokenRefresh, accessSession, "")
	return &RefreshResult{AccessToken: accessToken, ExpiresAt: accessExp}, nil
}

// Logout revokes the presented token's session. Only that session: sibling
// sessions from the same login (notably the refresh token) stay valid — an
// explicit scope limitation, not an oversight. Revocation is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return ErrTokenInvalid
	}
	if err := s.sessions.Revoke(ctx, claims.SessionID); err != nil {
		return err
	}
	subjectID, _ := claims.SubjectID()
	audit.RecordAsync(s.recorder, subjectID, auditdomain.EventUserLogout, claims.SessionID, "")
	return nil
}

// ChangePassword verifies the current credential, requires the new secret to
// match its confirmation and differ from the old one, then stores the new
// hash. Outstanding sessions are not revoked; staying logged in elsewhere is a
// product decision recorded as a scope limitation.
func (s *Service) ChangePassword(ctx context.Context, subjectID int64, oldPassword, newPassword, confirmation string) error {
	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}
	if s.hasher.Compare(user.PasswordHash, []byte(newPassword)) == nil {
		return ErrSamePassword
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, subjectID, hash); err != nil {
		return err
	}
	audit.RecordAsync(s.recorder, subjectID, auditdomain.EventPasswordChanged, "", "")
	return nil
}
