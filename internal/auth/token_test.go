package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func fixedCodec(secret string, at *time.Time) *Codec {
	c := NewCodec(secret, "service-academics")
	c.now = func() time.Time { return *at }
	return c
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := fixedCodec("secret", &now)
	entry := "2023-01-15"

	token, exp, err := c.Issue(Identity{
		AccountID: 7,
		Role:      RoleStudent,
		StudentID: int64Ptr(42),
		Name:      "Ada",
		Email:     "ada@uni.edu",
		EntryDate: &entry,
	}, 3*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(3*time.Hour), exp)

	claims, err := c.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AccountID)
	assert.Equal(t, RoleStudent, claims.Role)
	require.NotNil(t, claims.StudentID)
	assert.Equal(t, int64(42), *claims.StudentID)
	assert.Nil(t, claims.ProfessorID)
	assert.Equal(t, "2023-01-15", *claims.EntryDate)
	assert.Equal(t, "7", claims.Subject)
}

func TestTokenExpiryWindow(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := issued
	c := fixedCodec("secret", &clock)

	token, _, err := c.Issue(Identity{AccountID: 1, Role: RoleProfessor, ProfessorID: int64Ptr(3)}, 3*time.Hour)
	require.NoError(t, err)

	clock = issued.Add(2*time.Hour + 59*time.Minute)
	_, err = c.Verify(token)
	require.NoError(t, err)

	clock = issued.Add(3*time.Hour + time.Minute)
	_, err = c.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	now := time.Now()
	token, _, err := fixedCodec("secret", &now).Issue(Identity{AccountID: 1}, time.Hour)
	require.NoError(t, err)

	_, err = fixedCodec("other", &now).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenBadSignatureBeatsExpiry(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	token, _, err := fixedCodec("secret", &issued).Issue(Identity{AccountID: 1}, time.Hour)
	require.NoError(t, err)

	later := issued.Add(5 * time.Hour)
	_, err = fixedCodec("other", &later).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Identity:         Identity{AccountID: 1},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = fixedCodec("secret", &now).Verify(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	now := time.Now()
	_, err := fixedCodec("secret", &now).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
