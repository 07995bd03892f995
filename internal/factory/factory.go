package factory

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"account-api/internal/authz"
	"account-api/internal/services"

	"golang.org/x/crypto/bcrypt"
)

const emailCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var firstNames = []string{
	"alex", "casey", "drew", "elliot", "harper",
	"jordan", "morgan", "quinn", "riley", "taylor",
}

// randomString draws n characters from the given charset.
func randomString(charset string, n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(charset)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b), nil
}

// RandomEmail returns a plausible unique address like "harper-x7k2q9@example.com".
func RandomEmail() (string, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(firstNames))))
	if err != nil {
		return "", err
	}
	suffix, err := randomString(emailCharset, 6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s@example.com", firstNames[idx.Int64()], suffix), nil
}

// RandomPassword returns a random printable password of the given length.
func RandomPassword(n int) (string, error) {
	const charset = emailCharset + "ABCDEFGHIJKLMNOPQRSTUVWXYZ!#%+"
	return randomString(charset, n)
}

// NewUserInput builds a CreateUserInput with random credentials. The
// plaintext password is returned alongside so callers can print it once.
func NewUserInput(role authz.Role) (services.CreateUserInput, string, error) {
	email, err := RandomEmail()
	if err != nil {
		return services.CreateUserInput{}, "", err
	}
	password, err := RandomPassword(16)
	if err != nil {
		return services.CreateUserInput{}, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return services.CreateUserInput{}, "", err
	}
	return services.CreateUserInput{
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	}, password, nil
}
