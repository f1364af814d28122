package helpers

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed so hash strength does not drift with library defaults.
const bcryptCost = 10

// HashPassword hashes the plain text password using bcrypt. Each call salts
// independently, so two hashes of the same password differ.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
