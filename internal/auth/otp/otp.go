// Package otp mints the verification code a registrant must echo back
// at activation, and the activation token that carries it.
package otp

import (
	"com.martdev.sellerhub/internal/auth"
	"com.martdev.sellerhub/internal/crypto"
)

type Issuer struct {
	tokens       auth.Authenticator
	cryptoSecret string
	otpLength    int
}

func NewIssuer(tokens auth.Authenticator, cryptoSecret string) *Issuer {
	return &Issuer{
		tokens:       tokens,
		cryptoSecret: cryptoSecret,
		otpLength:    crypto.DefaultOTPLength,
	}
}

// Issue draws a fresh OTP, encrypts it under the crypto secret and
// signs an activation token embedding the pending signup together with
// the encrypted code. The cleartext code is returned for email
// delivery only; it never appears inside the token.
func (i *Issuer) Issue(pending auth.PendingSeller) (string, int64, error) {
	code, err := crypto.GenerateOTP(i.otpLength)
	if err != nil {
		return "", 0, err
	}

	encryptedOTP, err := crypto.Encrypt(code, i.cryptoSecret)
	if err != nil {
		return "", 0, err
	}

	token, err := i.tokens.SignActivationToken(auth.ActivationState{
		Payload:      pending,
		EncryptedOTP: encryptedOTP,
	})
	if err != nil {
		return "", 0, err
	}

	return token, code, nil
}
