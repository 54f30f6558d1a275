// Package operatorauth verifies operator bearer tokens for the triage
// endpoints. Tokens are Ed25519-signed JWTs issued by the collective's
// identity tooling.
package operatorauth

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
)

// operatorEnv holds raw env values before post-parse validation.
type operatorEnv struct {
	Issuer    string `env:"COLLECTIF_OPERATOR_ISSUER"`
	Audience  string `env:"COLLECTIF_OPERATOR_AUDIENCE"`
	PublicKey string `env:"COLLECTIF_OPERATOR_PUBLIC_KEY"`
}

// Config defines how operator tokens are verified. A zero Config means
// operator auth is disabled and triage endpoints are open; that mode is
// meant for local development only.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Enabled reports whether a verification key is configured.
func (c Config) Enabled() bool {
	return len(c.Key) == ed25519.PublicKeySize
}

// Claims captures validated operator token claims.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

type operatorClaims struct {
	jwt.RegisteredClaims
}

// LoadConfigFromEnv reads operator token verification configuration. All
// three variables must be set together; none set disables verification.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw operatorEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse operator auth env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if now == nil {
		now = time.Now
	}
	if issuer == "" && audience == "" && publicKey == "" {
		return Config{Now: now}, nil
	}
	if issuer == "" {
		return Config{}, fmt.Errorf("COLLECTIF_OPERATOR_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("COLLECTIF_OPERATOR_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("COLLECTIF_OPERATOR_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode operator public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("operator public key must be %d bytes", ed25519.PublicKeySize)
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// ValidateToken verifies an operator bearer token and returns its claims.
func ValidateToken(token string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeOperatorTokenInvalid, "operator token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !cfg.Enabled() || cfg.Issuer == "" || cfg.Audience == "" {
		return Claims{}, errors.New("operator token verifier is not configured")
	}

	var parsed operatorClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.WithMetadata(apperrors.CodeOperatorTokenInvalid,
			"operator token issuer mismatch",
			map[string]string{"Field": "issuer"})
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.WithMetadata(apperrors.CodeOperatorTokenInvalid,
			"operator token audience mismatch",
			map[string]string{"Field": "audience"})
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeOperatorTokenInvalid, "operator token sub is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeOperatorTokenInvalid, "operator token exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeOperatorTokenExpired, "operator token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeOperatorTokenInvalid, "operator token not active yet")
	}

	claims := Claims{
		Subject:   parsed.Subject,
		Issuer:    parsed.Issuer,
		Audience:  []string(parsed.Audience),
		ExpiresAt: exp,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeOperatorTokenInvalid, "operator token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeOperatorTokenInvalid, "operator token alg is invalid")
	}
	return apperrors.New(apperrors.CodeOperatorTokenInvalid, "operator token is invalid")
}

func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
