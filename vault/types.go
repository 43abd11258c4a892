// Package vault implements the encrypted on-disk form of the account store:
// the LEEK file format, the record codec, the master-password hashing and
// key derivation, and the cipher layer.
package vault

import "errors"

const (
	// Magic is the file signature at offset 0.
	Magic = "LEEK"
	// Version is the only on-disk format version this build reads or writes.
	Version uint32 = 1

	// KeyLen is the AES-256 key size in bytes.
	KeyLen = 32
	// SaltLen is the size of the key-derivation salt stored in the header.
	SaltLen = 64
	// IVLen is the AES block size; a fresh IV of this length is written on
	// every save.
	IVLen = 16
)

var (
	ErrWrongPassword     = errors.New("vault: wrong password")
	ErrUnsupportedFormat = errors.New("vault: unsupported file format")
	ErrCorruptData       = errors.New("vault: corrupt data")
)

// CategoryRecord is the wire form of one category. The id is whatever the
// writing store used; readers remap it to a fresh id on load.
type CategoryRecord struct {
	ID   uint32
	Name string
}

// AccountRecord is the wire form of one account. Categories holds wire-form
// category ids.
type AccountRecord struct {
	Name       string
	Login      string
	Password   string
	Categories []uint32
}
