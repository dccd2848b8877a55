package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// SecretVerifier проверяет введённый пароль администратора.
type SecretVerifier interface {
	VerifySecret(candidate string) bool
}

type plainSecret []byte

// NewPlainSecret compares candidates against secret in constant time.
func NewPlainSecret(secret string) SecretVerifier {
	return plainSecret(secret)
}

func (s plainSecret) VerifySecret(candidate string) bool {
	if len(s) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(s, []byte(candidate)) == 1
}

type hashedSecret []byte

// NewHashedSecret compares candidates against a bcrypt hash.
func NewHashedSecret(hash string) SecretVerifier {
	return hashedSecret(hash)
}

func (s hashedSecret) VerifySecret(candidate string) bool {
	return bcrypt.CompareHashAndPassword(s, []byte(candidate)) == nil
}

// BcryptCost используется при генерации ADMIN_SECRET_HASH.
const BcryptCost = 12

// HashSecret returns the bcrypt hash accepted by NewHashedSecret.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	return string(bytes), err
}
