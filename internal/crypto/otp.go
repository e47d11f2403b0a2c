package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var ErrOTPLength = errors.New("crypto: otp length must be between 6 and 10 digits")

const DefaultOTPLength = 6

// GenerateOTP draws a uniformly random n-digit code, i.e. an integer in
// [10^(n-1), 10^n - 1]. Codes shorter than 6 digits are too guessable
// and longer than 10 no longer fit the numeric comparison on
// activation, so n is constrained to that range.
func GenerateOTP(length int) (int64, error) {
	if length < 6 || length > 10 {
		return 0, ErrOTPLength
	}

	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	// rand.Int is half-open, so the span [min, max) covers every
	// n-digit code.
	n, err := rand.Int(rand.Reader, new(big.Int).Sub(max, min))
	if err != nil {
		return 0, err
	}

	return new(big.Int).Add(n, min).Int64(), nil
}
