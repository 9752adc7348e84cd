package security

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenProvider_IssueAndVerify(t *testing.T) {
	p := NewTestTokenProvider()

	token, sessionID, expiresAt, err := p.Issue(42, TokenClassAccess, "admin", TestAccessTTL)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" || sessionID == "" {
		t.Fatal("token or session id empty")
	}
	if len(sessionID) != 32 {
		t.Errorf("session id length = %d, want 32 hex chars", len(sessionID))
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	claims, err := p.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Errorf("session id = %q, want %q", claims.SessionID, sessionID)
	}
	if claims.Class != TokenClassAccess {
		t.Errorf("class = %q, want %q", claims.Class, TokenClassAccess)
	}
	if claims.Role != "admin" {
		t.Errorf("role hint = %q, want admin", claims.Role)
	}
	id, err := claims.SubjectID()
	if err != nil {
		t.Fatalf("SubjectID: %v", err)
	}
	if id != 42 {
		t.Errorf("subject id = %d, want 42", id)
	}
}

func TestTokenProvider_FreshSessionIDPerIssue(t *testing.T) {
	p := NewTestTokenProvider()
	_, s1, _, err := p.Issue(1, TokenClassAccess, "", TestAccessTTL)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, s2, _, err := p.Issue(1, TokenClassAccess, "", TestAccessTTL)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if s1 == s2 {
		t.Error("two issues produced the same session id")
	}
}

func TestTokenProvider_VerifyExpired(t *testing.T) {
	p := NewTestTokenProvider()
	token, _, _, err := p.Issue(7, TokenClassAccess, "", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = p.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify expired token: want ErrTokenExpired, got %v", err)
	}
}

func TestTokenProvider_VerifyMalformed(t *testing.T) {
	p := NewTestTokenProvider()
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := p.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q): want ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestTokenProvider_VerifyTampered(t *testing.T) {
	p := NewTestTokenProvider()
	token, _, _, err := p.Issue(42, TokenClassAccess, "", TestAccessTTL)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts, want 3", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	// Rewrite the subject claim without re-signing.
	mutated := strings.Replace(string(payload), `"sub":"42"`, `"sub":"43"`, 1)
	if mutated == string(payload) {
		t.Fatal("payload mutation did not apply")
	}
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(mutated))
	_, err = p.Verify(strings.Join(parts, "."))
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify tampered token: want ErrBadSignature, got %v", err)
	}
}

func TestTokenProvider_VerifyWrongSecret(t *testing.T) {
	p := NewTestTokenProvider()
	token, _, _, err := p.Issue(1, TokenClassAccess, "", TestAccessTTL)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := NewTokenProvider([]byte("another-secret-another-secret-xx"), nil, "ems-auth", "ems-api")
	if _, err := other.Verify(token); !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify with wrong secret: want ErrBadSignature, got %v", err)
	}
}

func TestTokenProvider_PreviousSecretWindow(t *testing.T) {
	oldSecret := []byte("old-secret-old-secret-old-secret")
	newSecret := []byte("new-secret-new-secret-new-secret")
	oldProvider := NewTokenProvider(oldSecret, nil, "ems-auth", "ems-api")
	token, _, _, err := oldProvider.Issue(9, TokenClassRefresh, "", TestRefreshTTL)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rotated := NewTokenProvider(newSecret, oldSecret, "ems-auth", "ems-api")
	claims, err := rotated.Verify(token)
	if err != nil {
		t.Fatalf("Verify with previous secret: %v", err)
	}
	if claims.Class != TokenClassRefresh {
		t.Errorf("class = %q, want %q", claims.Class, TokenClassRefresh)
	}

	withoutWindow := NewTokenProvider(newSecret, nil, "ems-auth", "ems-api")
	if _, err := withoutWindow.Verify(token); !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify after window closed: want ErrBadSignature, got %v", err)
	}
}

func TestTokenProvider_VerifyWrongIssuerOrAudience(t *testing.T) {
	p := NewTestTokenProvider()
	foreign := NewTokenProvider([]byte("0123456789abcdef0123456789abcdef"), nil, "someone-else", "ems-api")
	token, _, _, err := foreign.Issue(1, TokenClassAccess, "", TestAccessTTL)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify wrong issuer: want ErrTokenMalformed, got %v", err)
	}
}
