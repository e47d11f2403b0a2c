package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost trades signin latency for brute-force resistance on leaked
// hashes.
const hashCost = 14

func HashPassword(password string) (string, error) {
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		return "", errors.New("password must not exceed 72 bytes (bcrypt limitation)")
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, hashCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func ComparePasswords(hashed string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
