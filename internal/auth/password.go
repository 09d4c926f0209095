// Package auth provides the credential hashing and token issuing
// collaborators consumed by the account service.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way bcrypt digest from the secret.
func HashPassword(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the secret matches the stored digest.
func CheckPassword(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
