package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost matches ten salt rounds.
const PasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// dummyHash is compared against when no user exists, so a failed lookup
// costs as much as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("qa-community-dummy-password"), PasswordCost)

// HashPassword hashes the plain text password using bcrypt with a fresh salt.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = PasswordCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCompare performs a comparison whose result is discarded.
func BurnPasswordCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
