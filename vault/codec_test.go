package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRecords_CategoryBytes(t *testing.T) {
	got := EncodeRecords([]CategoryRecord{{ID: 0x42, Name: "Music"}}, nil)

	want := []byte{
		0x74, 0x60, 0x1E, 0xCA, // category magic, little-endian
		0x42, 0x00, 0x00, 0x00, // id
		0x05, 0x00, 0x00, 0x00, // name length
		'M', 'u', 's', 'i', 'c',
	}
	assert.Equal(t, want, got)
}

func TestEncodeRecords_AccountBytes(t *testing.T) {
	got := EncodeRecords(nil, []AccountRecord{{
		Name:       "Netflix",
		Login:      "JohnDoe",
		Password:   "password",
		Categories: []uint32{0x13, 0x18},
	}})

	want := []byte{0x47, 0x09, 0xCC, 0x0A} // account magic, little-endian
	want = append(want, 0x07, 0x00, 0x00, 0x00)
	want = append(want, "Netflix"...)
	want = append(want, 0x07, 0x00, 0x00, 0x00)
	want = append(want, "JohnDoe"...)
	want = append(want, 0x08, 0x00, 0x00, 0x00)
	want = append(want, "password"...)
	want = append(want, 0x02, 0x00, 0x00, 0x00)
	want = append(want, 0x13, 0x00, 0x00, 0x00)
	want = append(want, 0x18, 0x00, 0x00, 0x00)
	assert.Equal(t, want, got)
}

func TestDecodeRecords_RoundTrip(t *testing.T) {
	cats := []CategoryRecord{
		{ID: 1, Name: "work"},
		{ID: 7, Name: "home"},
	}
	accs := []AccountRecord{
		{Name: "Amazon", Login: "jd", Password: "s3cret", Categories: []uint32{1, 7}},
		{Name: "Bank", Login: "", Password: "", Categories: nil},
		{Name: "Netflix", Login: "jd@example.com", Password: "pw", Categories: []uint32{7}},
	}

	gotCats, gotAccs, err := DecodeRecords(EncodeRecords(cats, accs))
	require.NoError(t, err)
	assert.Equal(t, cats, gotCats)
	assert.Equal(t, accs, gotAccs)
}

func TestDecodeRecords_Empty(t *testing.T) {
	cats, accs, err := DecodeRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, cats)
	assert.Empty(t, accs)
}

func TestDecodeRecords_Truncated(t *testing.T) {
	catPart := EncodeRecords([]CategoryRecord{{ID: 1, Name: "work"}}, nil)
	full := EncodeRecords(
		[]CategoryRecord{{ID: 1, Name: "work"}},
		[]AccountRecord{{Name: "Amazon", Login: "jd", Password: "pw", Categories: []uint32{1}}},
	)

	// a cut at a record boundary is a shorter valid stream (the format has
	// no overall count); every other prefix must fail, never be silently
	// truncated
	boundary := len(catPart)
	for n := 1; n < len(full); n++ {
		_, _, err := DecodeRecords(full[:n])
		if n == boundary {
			require.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, ErrCorruptData, "prefix of %d bytes", n)
	}
}

func TestDecodeRecords_UnknownMagic(t *testing.T) {
	_, _, err := DecodeRecords([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestDecodeRecords_CategoryAfterAccount(t *testing.T) {
	cat := EncodeRecords([]CategoryRecord{{ID: 1, Name: "work"}}, nil)
	acc := EncodeRecords(nil, []AccountRecord{{Name: "A"}})

	// account block first, then a category record: malformed stream
	_, _, err := DecodeRecords(append(acc, cat...))
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestDecodeRecords_LengthBeyondInput(t *testing.T) {
	b := EncodeRecords([]CategoryRecord{{ID: 1, Name: "work"}}, nil)
	// inflate the name length way past the end of the stream
	b[8] = 0xFF
	b[9] = 0xFF
	b[10] = 0xFF
	b[11] = 0xFF

	_, _, err := DecodeRecords(b)
	require.ErrorIs(t, err, ErrCorruptData)
}
