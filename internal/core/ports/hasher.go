package ports

// PasswordHasher produces and verifies versioned credential hashes. The
// encoded form is self-describing so verification always replays the
// parameters the hash was created with, and NeedsRehash detects hashes
// produced with weaker-than-current parameters.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, encodedHash string) (bool, error)
	NeedsRehash(encodedHash string) (bool, error)
}
