package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"github.com/cargotrack/identity-service/internal/api/metrics"
)

// ErrInvalidArgument marks a contract violation by the caller (empty
// password or hash handed to the hasher). Logged and treated as an
// internal error, never shown to end users.
var ErrInvalidArgument = errors.New("invalid argument")

// Versioned hash blob layout, base64 encoded:
//
//	[0]    format version
//	[1]    PRF id
//	[2:6]  iteration count, big endian
//	[6:22] salt (128 bit)
//	[22:54] derived key (256 bit)
const (
	hashFormatVersion = 1
	prfHMACSHA256     = 1

	hashSaltSize = 16
	hashKeySize  = 32
	hashHeader   = 6
	hashBlobSize = hashHeader + hashSaltSize + hashKeySize

	defaultIterations = 10000
)

// PBKDF2Hasher derives credential hashes with PBKDF2-HMAC-SHA256 and packs
// the parameters into the encoded hash, so verification replays whatever
// the hash was created with and stored hashes survive parameter bumps.
type PBKDF2Hasher struct {
	iterations int
}

// NewPBKDF2Hasher builds a hasher targeting the given iteration count.
// Counts below the default are raised to it.
func NewPBKDF2Hasher(iterations int) *PBKDF2Hasher {
	if iterations < defaultIterations {
		iterations = defaultIterations
	}
	return &PBKDF2Hasher{iterations: iterations}
}

// HashPassword derives a key from the password with a fresh random salt and
// returns the encoded blob.
func (h *PBKDF2Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}

	salt := make([]byte, hashSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	start := time.Now()
	key := pbkdf2.Key([]byte(password), salt, h.iterations, hashKeySize, sha256.New)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())

	blob := make([]byte, hashBlobSize)
	blob[0] = hashFormatVersion
	blob[1] = prfHMACSHA256
	binary.BigEndian.PutUint32(blob[2:6], uint32(h.iterations))
	copy(blob[hashHeader:], salt)
	copy(blob[hashHeader+hashSaltSize:], key)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// VerifyPassword recomputes the derived key with the parameters stored in
// the blob and compares in constant time. Malformed blobs verify as false,
// not as an error. Legacy bcrypt hashes are accepted so accounts migrate
// transparently; NeedsRehash reports true for them.
func (h *PBKDF2Hasher) VerifyPassword(password, encodedHash string) (bool, error) {
	if password == "" {
		return false, fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}
	if encodedHash == "" {
		return false, fmt.Errorf("%w: empty hash", ErrInvalidArgument)
	}

	if isBcryptHash(encodedHash) {
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil, nil
	}

	blob, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil || len(blob) < hashBlobSize {
		return false, nil
	}
	if blob[0] != hashFormatVersion || blob[1] != prfHMACSHA256 {
		return false, nil
	}

	iterations := int(binary.BigEndian.Uint32(blob[2:6]))
	if iterations <= 0 {
		return false, nil
	}
	salt := blob[hashHeader : hashHeader+hashSaltSize]
	expected := blob[hashHeader+hashSaltSize : hashBlobSize]

	actual := pbkdf2.Key([]byte(password), salt, iterations, hashKeySize, sha256.New)
	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}

// NeedsRehash reports whether the stored hash should be regenerated:
// malformed or truncated blobs, legacy bcrypt hashes, and blobs whose
// stored parameters differ from the hasher's current targets.
func (h *PBKDF2Hasher) NeedsRehash(encodedHash string) (bool, error) {
	if encodedHash == "" {
		return false, fmt.Errorf("%w: empty hash", ErrInvalidArgument)
	}

	if isBcryptHash(encodedHash) {
		return true, nil
	}

	blob, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil || len(blob) < hashBlobSize {
		return true, nil
	}
	if blob[0] != hashFormatVersion || blob[1] != prfHMACSHA256 {
		return true, nil
	}

	iterations := int(binary.BigEndian.Uint32(blob[2:6]))
	return iterations != h.iterations, nil
}

func isBcryptHash(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}
