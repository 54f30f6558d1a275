package operatorauth

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
	"github.com/collectif-citoyen/plateforme/internal/platform/requestctx"
)

// Middleware enforces operator bearer tokens on the wrapped handler and
// places the token subject in the request context. A disabled Config
// returns the handler unchanged so local development works without tokens.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			claims, err := ValidateToken(token, cfg)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}
			ctx := requestctx.WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		code = apperrors.CodeOperatorTokenInvalid
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    string(code),
		"message": "operator authentication required",
	})
}
