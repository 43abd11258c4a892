package vault

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahmaliyi/leek/store"
)

func buildTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()

	shopping := s.AddCategory("shopping")
	media := s.AddCategory("media")
	s.AddCategory("empty")

	amazon, err := s.AddAccount("Amazon", "jd@example.com", "s3cret")
	require.NoError(t, err)
	require.NoError(t, amazon.AddCategory(shopping))

	netflix, err := s.AddAccount("Netflix", "JohnDoe", "password")
	require.NoError(t, err)
	require.NoError(t, netflix.AddCategory(shopping))
	require.NoError(t, netflix.AddCategory(media))

	_, err = s.AddAccount("Bank", "", "1234")
	require.NoError(t, err)

	return s
}

// accountGraph flattens a store into name -> fields plus category-name set,
// so two stores can be compared regardless of internal id assignment.
type accountGraph map[string]struct {
	login, password string
	categories      map[string]bool
}

func graphOf(t *testing.T, s *store.Store) accountGraph {
	t.Helper()
	g := make(accountGraph)
	for _, h := range s.Accounts() {
		name, err := h.Name()
		require.NoError(t, err)
		login, err := h.Login()
		require.NoError(t, err)
		password, err := h.Password()
		require.NoError(t, err)
		cats, err := h.Categories()
		require.NoError(t, err)
		set := make(map[string]bool)
		for _, c := range cats {
			cn, err := c.Name()
			require.NoError(t, err)
			set[cn] = true
		}
		g[name] = struct {
			login, password string
			categories      map[string]bool
		}{login, password, set}
	}
	return g
}

func categoryNames(t *testing.T, s *store.Store) map[string]bool {
	t.Helper()
	out := make(map[string]bool)
	for _, c := range s.Categories() {
		n, err := c.Name()
		require.NoError(t, err)
		out[n] = true
	}
	return out
}

func TestSaveOpen_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.leek")
	s := buildTestStore(t)
	password := []byte("master")

	require.NoError(t, Save(s, path, password))

	got, err := Open(path, password)
	require.NoError(t, err)

	assert.Equal(t, graphOf(t, s), graphOf(t, got))
	assert.Equal(t, categoryNames(t, s), categoryNames(t, got))
}

func TestSaveOpen_EmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.leek")
	require.NoError(t, Save(store.New(), path, []byte("pw")))

	got, err := Open(path, []byte("pw"))
	require.NoError(t, err)
	assert.Empty(t, got.Accounts())
	assert.Empty(t, got.Categories())
}

func TestOpen_WrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.leek")
	require.NoError(t, Save(buildTestStore(t), path, []byte("correct")))

	got, err := Open(path, []byte("incorrect"))
	require.ErrorIs(t, err, ErrWrongPassword)
	assert.Nil(t, got)
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()

	notVault := filepath.Join(dir, "not.leek")
	require.NoError(t, os.WriteFile(notVault, []byte("PK\x03\x04 something else entirely"), 0600))
	_, err := Open(notVault, []byte("pw"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	tiny := filepath.Join(dir, "tiny.leek")
	require.NoError(t, os.WriteFile(tiny, []byte("LE"), 0600))
	_, err = Open(tiny, []byte("pw"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	// right magic, future version
	futureVersion := filepath.Join(dir, "future.leek")
	raw := append([]byte(Magic), 2, 0, 0, 0)
	require.NoError(t, os.WriteFile(futureVersion, raw, 0600))
	_, err = Open(futureVersion, []byte("pw"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpen_TruncatedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.leek")
	raw := append([]byte(Magic), 1, 0, 0, 0)
	raw = append(raw, make([]byte, 30)...) // not even a full hash
	require.NoError(t, os.WriteFile(path, raw, 0600))

	_, err := Open(path, []byte("pw"))
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.leek"), []byte("pw"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_FreshSaltAndIV(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.leek")
	p2 := filepath.Join(dir, "two.leek")
	s := buildTestStore(t)
	password := []byte("pw")

	require.NoError(t, Save(s, p1, password))
	require.NoError(t, Save(s, p2, password))

	r1, err := os.ReadFile(p1)
	require.NoError(t, err)
	r2, err := os.ReadFile(p2)
	require.NoError(t, err)

	saltOff := len(Magic) + 4 + VerifyHashLen
	ivOff := saltOff + SaltLen

	assert.NotEqual(t, r1[saltOff:ivOff], r2[saltOff:ivOff], "salt must be fresh per save")
	assert.NotEqual(t, r1[ivOff:ivOff+IVLen], r2[ivOff:ivOff+IVLen], "iv must be fresh per save")
	assert.NotEqual(t, r1[headerLen:], r2[headerLen:], "ciphertext must differ")

	// both decode to the same data regardless
	g1, err := Open(p1, password)
	require.NoError(t, err)
	g2, err := Open(p2, password)
	require.NoError(t, err)
	assert.Equal(t, graphOf(t, g1), graphOf(t, g2))
}

func TestSave_KeepsOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.leek")
	require.NoError(t, Save(buildTestStore(t), path, []byte("pw")))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// make the directory unwritable so the temp file cannot be created
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { os.Chmod(dir, 0700) })

	err = Save(buildTestStore(t), path, []byte("pw"))
	require.Error(t, err)

	require.NoError(t, os.Chmod(dir, 0700))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed save must leave the vault untouched")
}

// writeRawVault builds a syntactically valid vault file around an arbitrary
// plaintext record stream.
func writeRawVault(t *testing.T, path string, password, plaintext []byte) {
	t.Helper()
	salt, err := randBytes(SaltLen)
	require.NoError(t, err)
	iv, err := randBytes(IVLen)
	require.NoError(t, err)
	hash, err := VerificationHash(password)
	require.NoError(t, err)

	key := DeriveKey(password, salt, KeyLen)
	ct, err := Encrypt(key, iv, plaintext)
	require.NoError(t, err)

	raw := append([]byte(Magic), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(raw[len(Magic):], Version)
	raw = append(raw, hash...)
	raw = append(raw, salt...)
	raw = append(raw, iv...)
	raw = append(raw, ct...)
	require.NoError(t, os.WriteFile(path, raw, 0600))
}

func TestOpen_DanglingCategoryID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.leek")
	password := []byte("pw")

	plaintext := EncodeRecords(
		[]CategoryRecord{{ID: 1, Name: "work"}},
		[]AccountRecord{{Name: "A", Categories: []uint32{99}}},
	)
	writeRawVault(t, path, password, plaintext)

	_, err := Open(path, password)
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestOpen_DuplicateAccountName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.leek")
	password := []byte("pw")

	plaintext := EncodeRecords(nil, []AccountRecord{{Name: "A"}, {Name: "A"}})
	writeRawVault(t, path, password, plaintext)

	_, err := Open(path, password)
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestOpen_RemapsCategoryIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.leek")
	password := []byte("pw")

	// wire ids nowhere near what a fresh store would assign
	plaintext := EncodeRecords(
		[]CategoryRecord{{ID: 0x1000, Name: "work"}, {ID: 0x2000, Name: "home"}},
		[]AccountRecord{{Name: "A", Login: "l", Password: "p", Categories: []uint32{0x2000}}},
	)
	writeRawVault(t, path, password, plaintext)

	s, err := Open(path, password)
	require.NoError(t, err)

	h, ok := s.GetAccount("A")
	require.True(t, ok)
	cats, err := h.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
	name, err := cats[0].Name()
	require.NoError(t, err)
	assert.Equal(t, "home", name)
}
