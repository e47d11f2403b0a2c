package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// A missing .env file is fine in deployed environments where the
	// variables come from the process environment directly.
	_ = godotenv.Load()
}

func GetString(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	return val
}

func GetInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	valAsInt, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}

	return valAsInt
}

// RequireString returns the value of key and records the key in missing
// when it is unset or empty, so callers can report every absent
// variable at once instead of failing on the first.
func RequireString(key string, missing *[]string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		*missing = append(*missing, key)
		return ""
	}

	return val
}

func RequireInt(key string, missing *[]string) int {
	val := RequireString(key, missing)
	if val == "" {
		return 0
	}

	valAsInt, err := strconv.Atoi(val)
	if err != nil {
		*missing = append(*missing, key)
		return 0
	}

	return valAsInt
}
