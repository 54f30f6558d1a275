package operatorauth

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
	"github.com/collectif-citoyen/plateforme/internal/platform/requestctx"
)

const (
	testIssuer   = "https://auth.collectif.example"
	testAudience = "procuration"
)

func newKeyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return public, private
}

func testConfig(key ed25519.PublicKey, now time.Time) Config {
	return Config{
		Issuer:   testIssuer,
		Audience: testAudience,
		Key:      key,
		Now:      func() time.Time { return now },
	}
}

func signToken(t *testing.T, private ed25519.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(private)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		Subject:   "operator-7",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func TestValidateTokenAcceptsSignedToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	public, private := newKeyPair(t)
	token := signToken(t, private, validClaims(now))

	claims, err := ValidateToken(token, testConfig(public, now))
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Subject != "operator-7" {
		t.Fatalf("subject = %q, want operator-7", claims.Subject)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	public, private := newKeyPair(t)
	_, otherPrivate := newKeyPair(t)

	expired := validClaims(now)
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	wrongIssuer := validClaims(now)
	wrongIssuer.Issuer = "https://intruder.example"

	wrongAudience := validClaims(now)
	wrongAudience.Audience = jwt.ClaimStrings{"web"}

	noSubject := validClaims(now)
	noSubject.Subject = ""

	cases := []struct {
		name  string
		token string
		code  apperrors.Code
	}{
		{"expired", signToken(t, private, expired), apperrors.CodeOperatorTokenExpired},
		{"wrong issuer", signToken(t, private, wrongIssuer), apperrors.CodeOperatorTokenInvalid},
		{"wrong audience", signToken(t, private, wrongAudience), apperrors.CodeOperatorTokenInvalid},
		{"missing subject", signToken(t, private, noSubject), apperrors.CodeOperatorTokenInvalid},
		{"wrong key", signToken(t, otherPrivate, validClaims(now)), apperrors.CodeOperatorTokenInvalid},
		{"garbage", "not-a-token", apperrors.CodeOperatorTokenInvalid},
		{"empty", "", apperrors.CodeOperatorTokenInvalid},
	}
	for _, tc := range cases {
		_, err := ValidateToken(tc.token, testConfig(public, now))
		if !apperrors.IsCode(err, tc.code) {
			t.Fatalf("%s: expected code %s, got %v", tc.name, tc.code, err)
		}
	}
}

func TestLoadConfigFromEnvDisabledWhenUnset(t *testing.T) {
	cfg, err := LoadConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Enabled() {
		t.Fatal("expected auth disabled with no env")
	}
}

func TestLoadConfigFromEnvRequiresAllValues(t *testing.T) {
	t.Setenv("COLLECTIF_OPERATOR_ISSUER", testIssuer)
	if _, err := LoadConfigFromEnv(nil); err == nil {
		t.Fatal("expected error when audience and key are missing")
	}
}

func TestMiddlewarePlacesSubjectInContext(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	public, private := newKeyPair(t)
	token := signToken(t, private, validClaims(now))

	var gotSubject string
	handler := Middleware(testConfig(public, now))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotSubject = requestctx.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/matches", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotSubject != "operator-7" {
		t.Fatalf("subject = %q, want operator-7", gotSubject)
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	public, _ := newKeyPair(t)

	handler := Middleware(testConfig(public, now))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/matches", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareDisabledPassesThrough(t *testing.T) {
	t.Parallel()

	called := false
	handler := Middleware(Config{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("expected handler to run with auth disabled")
	}
}
