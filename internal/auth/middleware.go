package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

// TokenVerifier decodes a bearer token into claims.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Gate guards protected routes with a bearer session token.
type Gate struct {
	verifier TokenVerifier
	logger   *zap.SugaredLogger
}

func NewGate(v TokenVerifier, logger *zap.SugaredLogger) *Gate {
	return &Gate{verifier: v, logger: logger}
}

// Authenticate rejects requests without a valid, unexpired token and
// attaches the decoded claims to the request context.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			utilities.WriteError(w, g.logger, r, apperr.Unauthenticated("No token, authorization denied."))
			return
		}
		claims, err := g.verifier.Verify(token)
		if err != nil {
			g.logger.Debugw("token rejected", "path", r.URL.Path, "err", err)
			utilities.WriteError(w, g.logger, r, apperr.Unauthenticated("Token is not valid."))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < len("bearer ") || !strings.EqualFold(h[:len("bearer ")], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[len("bearer "):])
	return token, token != ""
}

// RequireStudent returns the caller's student id or Forbidden.
func RequireStudent(c *Claims) (int64, error) {
	if c == nil || c.StudentID == nil {
		return 0, apperr.Forbidden("Access denied. Not a student.")
	}
	return *c.StudentID, nil
}

// RequireProfessor returns the caller's professor id or Forbidden.
func RequireProfessor(c *Claims) (int64, error) {
	if c == nil || c.ProfessorID == nil {
		return 0, apperr.Forbidden("Access denied. Not a professor.")
	}
	return *c.ProfessorID, nil
}
