// Package credential wraps the one-way password hash and the random
// material generators used by the authentication engine.
package credential

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// passwordChars excludes visually ambiguous glyphs (0/O, 1/l/I, 2/Z).
	passwordChars  = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXY3456789"
	passwordLength = 10

	cookieKeyBytes = 32
)

// HashPassword produces a stored hash for the plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// Neither input is ever logged or returned.
func VerifyPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// GenerateCookieKey produces a fresh random secret for login cookie
// rotation. Rotating a user's key revokes every login cookie issued
// with the previous one.
func GenerateCookieKey() (string, error) {
	b := make([]byte, cookieKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate cookie key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashAndKey produces a password hash and a fresh cookie key together,
// for account creation and password changes.
func HashAndKey(plaintext string) (hash string, cookieKey string, err error) {
	hash, err = HashPassword(plaintext)
	if err != nil {
		return "", "", err
	}
	cookieKey, err = GenerateCookieKey()
	if err != nil {
		return "", "", err
	}
	return hash, cookieKey, nil
}

// GenerateRandomPassword produces a human-typeable initial password for
// administrator-issued accounts. It is expected to be changed on first
// use.
func GenerateRandomPassword() (string, error) {
	password := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordChars)))
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password[i] = passwordChars[n.Int64()]
	}
	return string(password), nil
}
