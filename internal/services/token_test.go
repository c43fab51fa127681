package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123"

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer(secret, 0)
	tok, err := ti.Issue("user-1")
	require.NoError(t, err)

	uid, err := ti.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ti := NewTokenIssuer(secret, time.Hour)
	ti.now = func() time.Time { return start }

	tok, err := ti.Issue("user-1")
	require.NoError(t, err)

	ti.now = func() time.Time { return start.Add(59 * time.Minute) }
	_, err = ti.Verify(tok)
	require.NoError(t, err)

	ti.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = ti.Verify(tok)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "token expired", err.Error())
}

func TestTokenIssuer_NoExpiryWhenTTLZero(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ti := NewTokenIssuer(secret, 0)
	ti.now = func() time.Time { return start }
	tok, err := ti.Issue("user-1")
	require.NoError(t, err)

	ti.now = func() time.Time { return start.AddDate(10, 0, 0) }
	_, err = ti.Verify(tok)
	assert.NoError(t, err)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	ti := NewTokenIssuer(secret, 0)

	other, err := NewTokenIssuer("another-secret-value", 0).Issue("user-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "user-1"}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte(secret))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"wrong secret": other,
		"alg none":     none,
		"other alg":    hs512,
		"no user id":   noUser,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ti.Verify(tok)
			require.ErrorIs(t, err, ErrUnauthorized)
			assert.Equal(t, "invalid token", err.Error())
		})
	}
}
