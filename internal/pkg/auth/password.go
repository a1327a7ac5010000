package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor applied to stored lecturer secrets
const BcryptCost = 12

// HashPassword hashes a plaintext secret
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a stored hash with a plaintext secret
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
