package jwt

import (
	"testing"
	"time"

	"com.martdev.sellerhub/internal/auth"
	"com.martdev.sellerhub/internal/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accessSecret = "u8Qw4v9J2k5s7x0zB2n4p6r8t1v3y5a7c9e0g2i4k6m8o0q2s"
const refreshSecret = "r7Pl3m8K1j4h6f9dA1b3c5e7g9i1k3m5o7q9s1u3w5y7a9c1e"
const activationSecret = "a2Zx6c0v4b8n2m6qW0e4r8t2y6u0i4o8p2s6d0f4g8h2j6k0l"
const iss = "test-issuer"

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()

	issuer, err := NewTokenIssuer(
		accessSecret, refreshSecret, activationSecret, iss,
		5*time.Minute, 3*24*time.Hour, 10*time.Minute,
	)
	require.NoError(t, err)

	return issuer
}

func TestNewTokenIssuer(t *testing.T) {
	t.Run("should reject empty secrets", func(t *testing.T) {
		_, err := NewTokenIssuer("", refreshSecret, activationSecret, iss, time.Minute, time.Minute, time.Minute)
		assert.Error(t, err)
	})

	t.Run("should reject empty issuer", func(t *testing.T) {
		_, err := NewTokenIssuer(accessSecret, refreshSecret, activationSecret, "", time.Minute, time.Minute, time.Minute)
		assert.Error(t, err)
	})
}

func TestTokenIssuerSellerTokens(t *testing.T) {
	issuer := newTestIssuer(t)

	t.Run("should roundtrip an access token", func(t *testing.T) {
		token, err := issuer.SignAccessToken("seller123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		sellerID, err := issuer.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "seller123", sellerID)
	})

	t.Run("should roundtrip a refresh token", func(t *testing.T) {
		token, err := issuer.SignRefreshToken("seller456")
		require.NoError(t, err)

		sellerID, err := issuer.VerifyRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, "seller456", sellerID)
	})

	t.Run("should reject a refresh token signed with the access secret", func(t *testing.T) {
		token, err := issuer.SignAccessToken("seller789")
		require.NoError(t, err)

		_, err = issuer.VerifyRefreshToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("should reject an access token signed with the refresh secret", func(t *testing.T) {
		token, err := issuer.SignRefreshToken("seller789")
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("should reject an expired token as expired", func(t *testing.T) {
		expired, err := NewTokenIssuer(
			accessSecret, refreshSecret, activationSecret, iss,
			-time.Minute, -time.Minute, -time.Minute,
		)
		require.NoError(t, err)

		token, err := expired.SignAccessToken("seller1")
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("should reject a not yet valid token as such", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "seller1",
			Issuer:    iss,
			NotBefore: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(accessSecret))
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("should reject a malformed token", func(t *testing.T) {
		_, err := issuer.VerifyAccessToken("not.a.valid.jwt.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("should reject a token with the wrong issuer", func(t *testing.T) {
		other, err := NewTokenIssuer(
			accessSecret, refreshSecret, activationSecret, "other-issuer",
			5*time.Minute, time.Hour, time.Minute,
		)
		require.NoError(t, err)

		token, err := other.SignAccessToken("seller1")
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("should reject a token with no expiration", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "seller1", Issuer: iss}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(accessSecret))
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("should reject a token without a subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    iss,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(accessSecret))
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestTokenIssuerActivationTokens(t *testing.T) {
	issuer := newTestIssuer(t)

	state := auth.ActivationState{
		Payload: auth.PendingSeller{
			Fname:    "ann",
			Lname:    "lee",
			Email:    "a@x.com",
			Password: crypto.EncryptedPayload{IV: "00", Data: "ff"},
		},
		EncryptedOTP: crypto.EncryptedPayload{IV: "01", Data: "ee"},
	}

	t.Run("should carry the pending signup through the token", func(t *testing.T) {
		token, err := issuer.SignActivationToken(state)
		require.NoError(t, err)

		decoded, err := issuer.VerifyActivationToken(token)
		require.NoError(t, err)
		assert.Equal(t, state.Payload, decoded.Payload)
		assert.Equal(t, state.EncryptedOTP, decoded.EncryptedOTP)
	})

	t.Run("should reject an activation token under the access secret", func(t *testing.T) {
		token, err := issuer.SignActivationToken(state)
		require.NoError(t, err)

		_, err = issuer.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("should reject an access token as an activation token", func(t *testing.T) {
		token, err := issuer.SignAccessToken("seller1")
		require.NoError(t, err)

		_, err = issuer.VerifyActivationToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
