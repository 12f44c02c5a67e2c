package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Role names as stored in the roles catalog.
const (
	RoleStudent   = "Student"
	RoleProfessor = "Professor"
)

// Identity is the caller snapshot carried by a session token. Its JSON shape
// is the payload contract consumed by the chat proxy.
type Identity struct {
	AccountID   int64   `json:"userId"`
	Role        string  `json:"role"`
	StudentID   *int64  `json:"studentId"`
	ProfessorID *int64  `json:"professorId"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	EntryDate   *string `json:"entryDate"`
}

// Claims is the signed token payload.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

type ctxKey struct{}

// WithClaims attaches decoded claims to ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFromContext returns the claims attached by the gate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok && c != nil
}
