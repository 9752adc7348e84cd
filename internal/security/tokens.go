package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification errors. All three collapse to "unauthenticated" in the
// request pipeline but stay distinguishable in logs.
var (
	// ErrTokenExpired is returned when the token signature is fine but exp has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned for unparseable tokens or tokens missing required claims.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrBadSignature is returned when the signature does not verify against any key in force.
	ErrBadSignature = errors.New("token signature invalid")
)

// TokenClass distinguishes short-lived access tokens from long-lived refresh
// tokens. The class is embedded in the token itself so enforcement does not
// depend on which endpoint a token is presented to.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

// SessionClaims is the signed claim set of a session token: subject, a random
// session id (the unit of revocation), token class, and an optional role hint.
// Unknown claims are ignored on parse.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string     `json:"session_id"`
	Class     TokenClass `json:"cls"`
	Role      string     `json:"role,omitempty"`
}

// SubjectID parses the subject claim as the numeric user id.
// Callers must only invoke this on claims returned by Verify.
func (c *SessionClaims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenMalformed
	}
	return id, nil
}

// TokenProvider issues and verifies HS256-signed session tokens. The active
// secret signs everything; an optional previous secret is retained so a key
// swap does not invalidate tokens issued before the swap.
type TokenProvider struct {
	secret         []byte
	previousSecret []byte
	issuer         string
	audience       string
}

// NewTokenProvider returns a TokenProvider signing with secret. previousSecret
// may be nil; when set it is tried for verification only, never for signing.
func NewTokenProvider(secret, previousSecret []byte, issuer, audience string) *TokenProvider {
	return &TokenProvider{
		secret:         secret,
		previousSecret: previousSecret,
		issuer:         issuer,
		audience:       audience,
	}
}

// Issue signs a token of the given class for subjectID with expiry now+ttl.
// A fresh random session id is generated and embedded; the caller must register
// it for the token to be accepted by the request pipeline. roleHint may be
// empty; it is informational only and never consulted for authorization.
func (p *TokenProvider) Issue(subjectID int64, class TokenClass, roleHint string, ttl time.Duration) (token, sessionID string, expiresAt time.Time, err error) {
	sessionID, err = generateSessionID()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		Class:     class,
		Role:      roleHint,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, sessionID, expiresAt, nil
}

// Verify parses tokenString and checks signature, expiry, issuer, and audience.
// It never returns claims for a token that failed any check. A signature
// failure against the active secret is retried against the previous secret.
func (p *TokenProvider) Verify(tokenString string) (*SessionClaims, error) {
	claims, err := p.parseWith(tokenString, p.secret)
	if errors.Is(err, ErrBadSignature) && len(p.previousSecret) > 0 {
		claims, err = p.parseWith(tokenString, p.previousSecret)
	}
	return claims, err
}

func (p *TokenProvider) parseWith(tokenString string, key []byte) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return key, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithAudience(p.audience))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Subject == "" || claims.SessionID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	if claims.Class != TokenClassAccess && claims.Class != TokenClassRefresh {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// generateSessionID returns 128 bits from crypto/rand, hex-encoded.
func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
