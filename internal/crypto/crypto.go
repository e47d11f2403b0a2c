// Package crypto implements the symmetric encryption used to carry the
// pending-signup password and OTP inside the activation token, plus the
// OTP generation itself.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrDecryption = errors.New("crypto: payload was not produced with this key or is malformed")
)

// EncryptedPayload is the wire shape of an AES-256-CBC ciphertext. The
// IV is generated fresh for every encryption and must travel with the
// ciphertext to decrypt it.
type EncryptedPayload struct {
	IV   string `json:"iv"`
	Data string `json:"encryptedData"`
}

// normalizeKey forces the key to exactly 32 bytes for AES-256,
// zero-padding short keys and truncating long ones.
func normalizeKey(key string) []byte {
	normalized := make([]byte, 32)
	copy(normalized, key)
	return normalized
}

// Encrypt JSON-serializes value and encrypts it with AES-256-CBC under
// the given key. Any JSON-serializable value roundtrips through
// Decrypt.
func Encrypt(value any, key string) (EncryptedPayload, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("crypto: serializing value: %w", err)
	}

	block, err := aes.NewCipher(normalizeKey(key))
	if err != nil {
		return EncryptedPayload{}, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return EncryptedPayload{}, fmt.Errorf("crypto: generating iv: %w", err)
	}

	padded := padPKCS7(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return EncryptedPayload{
		IV:   hex.EncodeToString(iv),
		Data: hex.EncodeToString(ciphertext),
	}, nil
}

// Decrypt reverses Encrypt, unmarshalling the plaintext into out. It
// returns ErrDecryption when the payload is structurally invalid or was
// encrypted under a different key.
func Decrypt(payload EncryptedPayload, key string, out any) error {
	iv, err := hex.DecodeString(payload.IV)
	if err != nil || len(iv) != aes.BlockSize {
		return ErrDecryption
	}

	ciphertext, err := hex.DecodeString(payload.Data)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return ErrDecryption
	}

	block, err := aes.NewCipher(normalizeKey(key))
	if err != nil {
		return err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, ok := unpadPKCS7(plaintext)
	if !ok {
		return ErrDecryption
	}

	if err := json.Unmarshal(plaintext, out); err != nil {
		return ErrDecryption
	}

	return nil
}

func padPKCS7(data []byte) []byte {
	padding := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func unpadPKCS7(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, false
	}

	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, false
		}
	}

	return data[:len(data)-padding], true
}
