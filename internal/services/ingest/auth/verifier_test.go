package auth

import (
	"testing"
	"time"

	perr "riskgate/internal/platform/errors"
	"riskgate/internal/services/ingest/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "unit-test-secret"
	testIssuer = "risk-platform"
)

func newTestVerifier(t *testing.T, keys ...string) *Verifier {
	t.Helper()
	return New(Config{
		APIKeys:          keys,
		Secret:           testSecret,
		Alg:              "HS256",
		Issuer:           testIssuer,
		FederatedIssuers: []string{"accounts.google.com", "https://accounts.google.com"},
	})
}

func mintToken(t *testing.T, secret, issuer, subject string, ttl time.Duration, extra map[string]any) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAPIKeyWinsImmediately(t *testing.T) {
	v := newTestVerifier(t, "k1", "k2")

	id, err := v.Verify("k1")
	if err != nil {
		t.Fatalf("Verify(k1): %v", err)
	}
	if id.Subject != "api-key-user" || id.Method != domain.AuthMethodAPIKey {
		t.Fatalf("identity = %+v", id)
	}
}

func TestAPIKeyBeatsSignedTokenCheck(t *testing.T) {
	// a configured key that happens to look like a broken JWT must still
	// authenticate as an API key, not fall into token parsing
	key := "eyJhbGciOiJIUzI1NiJ9.not.a-token"
	v := newTestVerifier(t, key)

	id, err := v.Verify(key)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Method != domain.AuthMethodAPIKey {
		t.Fatalf("method = %v, want api_key", id.Method)
	}
}

func TestEmptyCredentialAlwaysFails(t *testing.T) {
	// even a degenerate key set containing "" must not match
	v := newTestVerifier(t, "", "k1")

	if _, err := v.Verify(""); err == nil {
		t.Fatal("empty credential accepted")
	} else if perr.CodeOf(err) != perr.ErrorCodeUnauthorized {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}

func TestSignedTokenSubjectPassesThrough(t *testing.T) {
	v := newTestVerifier(t)
	tok := mintToken(t, testSecret, testIssuer, "svc-batcher", time.Hour, map[string]any{"team": "risk"})

	id, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "svc-batcher" || id.Method != domain.AuthMethodSignedToken {
		t.Fatalf("identity = %+v", id)
	}
	if got, _ := id.Claims["team"].(string); got != "risk" {
		t.Fatalf("claims not passed through: %v", id.Claims)
	}
}

func TestExpiredTokenFallsThroughAndFails(t *testing.T) {
	v := newTestVerifier(t)
	tok := mintToken(t, testSecret, testIssuer, "svc-batcher", -time.Hour, nil)

	_, err := v.Verify(tok)
	if err == nil {
		t.Fatal("expired token accepted")
	}
	if perr.CodeOf(err) != perr.ErrorCodeUnauthorized {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}

func TestWrongIssuerFallsThrough(t *testing.T) {
	v := newTestVerifier(t)
	tok := mintToken(t, testSecret, "someone-else", "svc", time.Hour, nil)

	if _, err := v.Verify(tok); err == nil {
		t.Fatal("wrong-issuer token accepted")
	}
}

func TestBadSignatureFallsThrough(t *testing.T) {
	v := newTestVerifier(t)
	tok := mintToken(t, "other-secret", testIssuer, "svc", time.Hour, nil)

	if _, err := v.Verify(tok); err == nil {
		t.Fatal("badly signed token accepted")
	}
}

func TestFederatedIssuerTrustedWithoutSignature(t *testing.T) {
	v := newTestVerifier(t)
	// signed with an unknown secret: the signature cannot verify locally,
	// only the issuer claim carries it through
	tok := mintToken(t, "gcp-internal", "accounts.google.com", "ignored", time.Hour,
		map[string]any{"email": "svc@example.iam.gserviceaccount.com"})

	id, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Method != domain.AuthMethodFederated {
		t.Fatalf("method = %v", id.Method)
	}
	if id.Subject != "svc@example.iam.gserviceaccount.com" {
		t.Fatalf("subject = %q", id.Subject)
	}
}

func TestFederatedFallbackSubject(t *testing.T) {
	v := newTestVerifier(t)
	tok := mintToken(t, "whatever", "https://accounts.google.com", "ignored", time.Hour, nil)

	id, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "iam-user" {
		t.Fatalf("subject = %q, want iam-user", id.Subject)
	}
}

func TestExpiredFederatedTokenStillAccepted(t *testing.T) {
	// the federated path inspects the issuer only; expiry is the
	// perimeter's concern, mirroring the unverified decode it replaces
	v := newTestVerifier(t)
	tok := mintToken(t, "whatever", "accounts.google.com", "x", -time.Hour,
		map[string]any{"email": "late@example.com"})

	id, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "late@example.com" {
		t.Fatalf("subject = %q", id.Subject)
	}
}

func TestGarbageCredentialRejected(t *testing.T) {
	v := newTestVerifier(t, "k1")
	for _, cred := range []string{"nope", "a.b", "Bearer k1"} {
		if _, err := v.Verify(cred); err == nil {
			t.Fatalf("Verify(%q) accepted", cred)
		}
	}
}

func TestVerifyIsRepeatable(t *testing.T) {
	// no caching: the same expired credential fails on every call
	v := newTestVerifier(t)
	tok := mintToken(t, testSecret, testIssuer, "svc", -time.Minute, nil)
	for i := 0; i < 3; i++ {
		if _, err := v.Verify(tok); err == nil {
			t.Fatalf("call %d accepted expired token", i)
		}
	}
}
