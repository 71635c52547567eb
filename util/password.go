package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	saltLen             = 16
	argonPrefix         = "argon2id$"
)

var ErrMalformedHash = errors.New("malformed password hash")

var (
	jwtSecretValue = getEnv("JWTSECRET", "")
	jwtSecretByte  = []byte(jwtSecretValue)
	jwtMutex       sync.RWMutex
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// SetJWTSecret allows tests or runtime code to update the secret used for
// signing session tokens. This function is thread-safe.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes in a thread-safe manner.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}

// GenerateSalt returns a random base64 salt.
func GenerateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// HashPasswordArgon2 hashes password with salt and returns the encoded form
// argon2id$<salt>$<hash>.
func HashPasswordArgon2(password, salt string) (string, error) {
	if salt == "" {
		return "", errors.New("salt cannot be empty")
	}
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return argonPrefix + salt + "$" + base64.RawStdEncoding.EncodeToString(key), nil
}

// VerifyPassword checks password against an encoded argon2id hash in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	if !strings.HasPrefix(encoded, argonPrefix) {
		return false, ErrMalformedHash
	}
	parts := strings.SplitN(strings.TrimPrefix(encoded, argonPrefix), "$", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false, ErrMalformedHash
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedHash
	}
	got := argon2.IDKey([]byte(password), []byte(parts[0]), argonTime, argonMemory, argonThreads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// AdminCredential is the single administrator account allowed to log in.
type AdminCredential struct {
	Username     string
	PasswordHash string
}

// NewAdminCredential builds the credential from an encoded hash, or hashes a
// plaintext password when no hash is configured.
func NewAdminCredential(username, encodedHash, plain string) (AdminCredential, error) {
	if username == "" {
		return AdminCredential{}, errors.New("admin username is empty")
	}
	if encodedHash != "" {
		if !strings.HasPrefix(encodedHash, argonPrefix) {
			return AdminCredential{}, ErrMalformedHash
		}
		return AdminCredential{Username: username, PasswordHash: encodedHash}, nil
	}
	if plain == "" {
		return AdminCredential{}, errors.New("either ADMINPASSHASH or ADMINPASS must be set")
	}
	salt, err := GenerateSalt()
	if err != nil {
		return AdminCredential{}, err
	}
	hash, err := HashPasswordArgon2(plain, salt)
	if err != nil {
		return AdminCredential{}, err
	}
	return AdminCredential{Username: username, PasswordHash: hash}, nil
}

// Check compares a submitted username/password pair. The username comparison
// is constant-time as well so both failure modes look alike.
func (a AdminCredential) Check(username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK, err := VerifyPassword(password, a.PasswordHash)
	if err != nil {
		return false, err
	}
	return userOK && passOK, nil
}
