package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("segredo", "authenticated")
	userID := uuid.NewString()

	token, err := v.Sign(userID, "ana@example.com", time.Minute)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, "ana@example.com", id.Email)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("segredo", "authenticated")
	userID := uuid.NewString()

	wrongSecret, err := NewVerifier("outro", "authenticated").Sign(userID, "", time.Minute)
	require.NoError(t, err)
	wrongAudience, err := NewVerifier("segredo", "anon").Sign(userID, "", time.Minute)
	require.NoError(t, err)
	notUUID, err := v.Sign("user-1", "", time.Minute)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("segredo"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Audience: jwt.ClaimStrings{"authenticated"},
		},
	}).SignedString([]byte("segredo"))
	require.NoError(t, err)

	tests := map[string]string{
		"wrong secret":   wrongSecret,
		"wrong audience": wrongAudience,
		"subject":        notUUID,
		"expired":        expired,
		"no expiry":      noExpiry,
		"garbage":        "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifier_NoAudienceConfigured(t *testing.T) {
	signer := NewVerifier("segredo", "authenticated")
	token, err := signer.Sign(uuid.NewString(), "", time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier("segredo", "").Verify(token)
	require.NoError(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := TokenFromRequest(r)
	require.ErrorIs(t, err, ErrMissingToken)

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	token, err := TokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", token)

	r.Header.Set("Authorization", "bearer from-header")
	token, err = TokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "from-header", token)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u"})
	id, ok := IdentityFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u", id.UserID)
}
