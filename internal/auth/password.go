package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword creates a bcrypt hash of the plaintext password.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// bcrypt hash. A nil error means a match.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Well-formed cost-10 bcrypt hash compared against when a login targets an
// unknown email, so both paths cost one bcrypt comparison. The result is
// always discarded; only the work matters.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CompareDummy burns one bcrypt comparison without revealing anything about
// stored credentials.
func CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
