package vault

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fahmaliyi/leek/store"
)

// headerLen is everything before the ciphertext: magic, version, bcrypt
// hash, salt, IV.
const headerLen = len(Magic) + 4 + VerifyHashLen + SaltLen + IVLen

// Open reads and decrypts the vault at path and returns a freshly populated
// store.
//
// ErrWrongPassword is the only recoverable failure: the caller is expected
// to re-prompt and call Open again. A file that does not start with the
// LEEK magic and version is ErrUnsupportedFormat; everything structurally
// wrong after the password check is ErrCorruptData.
func Open(path string, password []byte) (*store.Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vault: %w", err)
	}

	if len(raw) < len(Magic)+4 || string(raw[:len(Magic)]) != Magic {
		return nil, ErrUnsupportedFormat
	}
	if binary.LittleEndian.Uint32(raw[len(Magic):]) != Version {
		return nil, ErrUnsupportedFormat
	}
	if len(raw) < headerLen {
		return nil, ErrCorruptData
	}

	off := len(Magic) + 4
	hash := raw[off : off+VerifyHashLen]
	off += VerifyHashLen
	salt := raw[off : off+SaltLen]
	off += SaltLen
	iv := raw[off : off+IVLen]
	off += IVLen
	ciphertext := raw[off:]

	if !CheckPassword(password, hash) {
		return nil, ErrWrongPassword
	}

	key := DeriveKey(password, salt, KeyLen)
	defer Zero(key)

	plaintext, err := Decrypt(key, iv, ciphertext)
	if err != nil {
		return nil, err
	}
	defer Zero(plaintext)

	cats, accs, err := DecodeRecords(plaintext)
	if err != nil {
		return nil, err
	}
	return buildStore(cats, accs)
}

// buildStore inserts decoded records into a fresh store. The store assigns
// its own category ids, so the wire ids are remapped; an account referring
// to a category id the file never declared means the file is bad.
func buildStore(cats []CategoryRecord, accs []AccountRecord) (*store.Store, error) {
	s := store.New()
	remap := make(map[uint32]store.CategoryHandle, len(cats))
	for _, c := range cats {
		if _, dup := remap[c.ID]; dup || s.HasCategory(c.Name) {
			return nil, ErrCorruptData
		}
		remap[c.ID] = s.AddCategory(c.Name)
	}
	for _, a := range accs {
		h, err := s.AddAccount(a.Name, a.Login, a.Password)
		if err != nil {
			return nil, ErrCorruptData
		}
		for _, id := range a.Categories {
			ch, ok := remap[id]
			if !ok {
				return nil, ErrCorruptData
			}
			if err := h.AddCategory(ch); err != nil {
				return nil, ErrCorruptData
			}
		}
	}
	return s, nil
}

// Save encrypts the store under a fresh salt and IV and atomically replaces
// the file at path. If anything fails before the final rename the previous
// vault file is left untouched.
func Save(s *store.Store, path string, password []byte) error {
	cats, accs, err := snapshotRecords(s)
	if err != nil {
		return err
	}
	plaintext := EncodeRecords(cats, accs)
	defer Zero(plaintext)

	salt, err := randBytes(SaltLen)
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	iv, err := randBytes(IVLen)
	if err != nil {
		return fmt.Errorf("generate iv: %w", err)
	}
	hash, err := VerificationHash(password)
	if err != nil {
		return err
	}

	key := DeriveKey(password, salt, KeyLen)
	defer Zero(key)

	ciphertext, err := Encrypt(key, iv, plaintext)
	if err != nil {
		return err
	}

	raw := make([]byte, 0, headerLen+len(ciphertext))
	raw = append(raw, Magic...)
	raw = binary.LittleEndian.AppendUint32(raw, Version)
	raw = append(raw, hash...)
	raw = append(raw, salt...)
	raw = append(raw, iv...)
	raw = append(raw, ciphertext...)

	return atomicWriteFile(path, raw, 0600)
}

// snapshotRecords flattens the live store into wire records, categories
// first, both in the store's enumeration order.
func snapshotRecords(s *store.Store) ([]CategoryRecord, []AccountRecord, error) {
	var cats []CategoryRecord
	for _, c := range s.Categories() {
		name, err := c.Name()
		if err != nil {
			return nil, nil, err
		}
		cats = append(cats, CategoryRecord{ID: uint32(c.ID()), Name: name})
	}
	var accs []AccountRecord
	for _, a := range s.Accounts() {
		name, err := a.Name()
		if err != nil {
			return nil, nil, err
		}
		login, err := a.Login()
		if err != nil {
			return nil, nil, err
		}
		password, err := a.Password()
		if err != nil {
			return nil, nil, err
		}
		members, err := a.Categories()
		if err != nil {
			return nil, nil, err
		}
		rec := AccountRecord{Name: name, Login: login, Password: password}
		for _, c := range members {
			rec.Categories = append(rec.Categories, uint32(c.ID()))
		}
		accs = append(accs, rec)
	}
	return cats, accs, nil
}

// atomicWriteFile writes data to a uniquely named temp file in the target
// directory, syncs it, then renames it over path. Rename on the same
// filesystem is atomic, so readers only ever see the old file or the new
// one.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, ".leek-"+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temp vault: %w", err)
	}
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp vault: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp vault: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp vault: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace vault: %w", err)
	}
	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Zero wipes a byte slice holding secret material.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
