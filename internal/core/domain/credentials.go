package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
)

const saltSize = 16

// Email is a validated, lowercase-normalized email address.
// Comparison is case-insensitive by construction: the raw value is folded
// to lowercase before it is stored.
type Email struct {
	value string
}

// NewEmail validates and normalizes a raw address.
func NewEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return Email{}, NewValidationError("email", "address must not be empty")
	}
	if !emailPattern.MatchString(raw) {
		return Email{}, NewValidationError("email", "invalid email format")
	}
	return Email{value: strings.ToLower(raw)}, nil
}

func (e Email) String() string { return e.value }

// Equal reports case-insensitive equality with another address.
func (e Email) Equal(other Email) bool { return e.value == other.value }

// Username is a validated, lowercase-normalized user name.
type Username struct {
	value string
}

// NewUsername validates and normalizes a raw user name.
func NewUsername(raw string) (Username, error) {
	if strings.TrimSpace(raw) == "" {
		return Username{}, NewValidationError("username", "username must not be empty")
	}
	if !usernamePattern.MatchString(raw) {
		return Username{}, NewValidationError("username",
			"username must be 3-20 characters and contain only letters, digits, underscores and hyphens")
	}
	return Username{value: strings.ToLower(raw)}, nil
}

func (u Username) String() string { return u.value }

func (u Username) Equal(other Username) bool { return u.value == other.value }

// Password is a salted credential hash. The plaintext never leaves the
// constructor.
type Password struct {
	hash string
	salt string
}

// ValidatePassword checks the raw password against the policy: non-blank,
// at least 8 characters, with an uppercase letter, a lowercase letter, a
// digit and a symbol.
func ValidatePassword(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return NewValidationError("password", "password must not be empty")
	}
	if !passwordMeetsPolicy(raw) {
		return NewValidationError("password",
			"password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a digit and a symbol")
	}
	return nil
}

// NewPassword enforces the password policy, generates a random salt and
// hashes the plaintext.
func NewPassword(raw string) (Password, error) {
	if err := ValidatePassword(raw); err != nil {
		return Password{}, err
	}

	saltBytes := make([]byte, saltSize)
	if _, err := rand.Read(saltBytes); err != nil {
		return Password{}, fmt.Errorf("generate salt: %w", err)
	}
	salt := base64.StdEncoding.EncodeToString(saltBytes)

	return Password{hash: hashWithSalt(raw, salt), salt: salt}, nil
}

// PasswordFromHash reconstructs a Password from stored values.
func PasswordFromHash(hash, salt string) (Password, error) {
	if strings.TrimSpace(hash) == "" {
		return Password{}, NewValidationError("password", "hash value must not be empty")
	}
	if strings.TrimSpace(salt) == "" {
		return Password{}, NewValidationError("password", "salt value must not be empty")
	}
	return Password{hash: hash, salt: salt}, nil
}

// Verify recomputes the hash for the candidate with the stored salt and
// compares in constant time.
func (p Password) Verify(candidate string) bool {
	attempt := hashWithSalt(candidate, p.salt)
	return subtle.ConstantTimeCompare([]byte(p.hash), []byte(attempt)) == 1
}

func (p Password) Hash() string { return p.hash }
func (p Password) Salt() string { return p.salt }

func hashWithSalt(plain, salt string) string {
	sum := sha256.Sum256([]byte(plain + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// passwordMeetsPolicy checks the four character-class requirements plus the
// minimum length.
func passwordMeetsPolicy(raw string) bool {
	if len(raw) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
