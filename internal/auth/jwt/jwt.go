package jwt

import (
	"errors"
	"fmt"
	"time"

	"com.martdev.sellerhub/internal/auth"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failures are distinct conditions: callers branch on
// expiry vs not-yet-valid vs everything else, not a generic "invalid".
var (
	ErrTokenExpired     = errors.New("jwt: token has expired")
	ErrTokenNotYetValid = errors.New("jwt: token is not yet valid")
	ErrTokenInvalid     = errors.New("jwt: token is malformed or has a bad signature")
)

type secretConfig struct {
	secret []byte
	expire time.Duration
}

// TokenIssuer signs and verifies access, refresh and activation tokens,
// each under an independent HS256 secret.
type TokenIssuer struct {
	access     secretConfig
	refresh    secretConfig
	activation secretConfig
	iss        string
}

func NewTokenIssuer(accessSecret, refreshSecret, activationSecret, iss string, accessExpire, refreshExpire, activationExpire time.Duration) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" || activationSecret == "" {
		return nil, fmt.Errorf("jwt: token secrets must not be empty")
	}
	if iss == "" {
		return nil, fmt.Errorf("jwt: issuer must not be empty")
	}
	return &TokenIssuer{
		access:     secretConfig{secret: []byte(accessSecret), expire: accessExpire},
		refresh:    secretConfig{secret: []byte(refreshSecret), expire: refreshExpire},
		activation: secretConfig{secret: []byte(activationSecret), expire: activationExpire},
		iss:        iss,
	}, nil
}

type activationClaims struct {
	auth.ActivationState
	jwt.RegisteredClaims
}

func (t *TokenIssuer) SignAccessToken(sellerID string) (string, error) {
	return t.signSellerToken(sellerID, t.access)
}

func (t *TokenIssuer) SignRefreshToken(sellerID string) (string, error) {
	return t.signSellerToken(sellerID, t.refresh)
}

func (t *TokenIssuer) SignActivationToken(state auth.ActivationState) (string, error) {
	claims := activationClaims{
		ActivationState:  state,
		RegisteredClaims: t.registeredClaims("", t.activation.expire),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.activation.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign activation token: %w", err)
	}

	return token, nil
}

func (t *TokenIssuer) VerifyAccessToken(token string) (string, error) {
	return t.verifySellerToken(token, t.access)
}

func (t *TokenIssuer) VerifyRefreshToken(token string) (string, error) {
	return t.verifySellerToken(token, t.refresh)
}

func (t *TokenIssuer) VerifyActivationToken(token string) (*auth.ActivationState, error) {
	var claims activationClaims
	if _, err := t.parse(token, &claims, t.activation); err != nil {
		return nil, err
	}

	return &claims.ActivationState, nil
}

func (t *TokenIssuer) signSellerToken(sellerID string, cfg secretConfig) (string, error) {
	claims := t.registeredClaims(sellerID, cfg.expire)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}

	return token, nil
}

func (t *TokenIssuer) verifySellerToken(token string, cfg secretConfig) (string, error) {
	var claims jwt.RegisteredClaims
	if _, err := t.parse(token, &claims, cfg); err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

func (t *TokenIssuer) registeredClaims(subject string, expire time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    t.iss,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
	}
}

func (t *TokenIssuer) parse(token string, claims jwt.Claims, cfg secretConfig) (*jwt.Token, error) {
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return cfg.secret, nil
	}, jwt.WithExpirationRequired(),
		jwt.WithIssuer(t.iss),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrTokenInvalid
		}
	}

	return parsed, nil
}
