package vault

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// VerifyHashLen is the size of the bcrypt hash stored in the file
	// header. bcrypt's modular-crypt encoding is always 60 bytes.
	VerifyHashLen = 60

	bcryptCost       = 12
	pbkdf2Iterations = 10000
)

// VerificationHash produces a bcrypt hash of the master password, salted
// per call. It is stored in the clear in the file header and only used to
// reject a wrong password before any decryption is attempted; the
// encryption key is derived separately so this hash reveals nothing about
// it.
func VerificationHash(password []byte) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword(password, bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if len(h) != VerifyHashLen {
		return nil, fmt.Errorf("hash password: unexpected length %d", len(h))
	}
	return h, nil
}

// CheckPassword reports whether password matches a stored VerificationHash.
func CheckPassword(password, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}

// DeriveKey stretches the master password into a symmetric key with
// PBKDF2-HMAC-SHA256. Same password and salt always give the same key; the
// salt is regenerated on every save so keys are never reused across writes.
func DeriveKey(password, salt []byte, keyLen int) []byte {
	return pbkdf2.Key(password, salt, pbkdf2Iterations, keyLen, sha256.New)
}
