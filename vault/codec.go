package vault

import (
	"encoding/binary"
	"math"
)

// Record magics. Every record starts with one of these, which is how the
// reader finds the boundary between the category block and the account
// block without any count prefix.
const (
	categoryMagic uint32 = 0xCA1E6074
	accountMagic  uint32 = 0x0ACC0947
)

// EncodeRecords serializes categories followed by accounts into the wire
// form: little-endian u32s, strings as u32 length plus raw bytes. Encoding
// cannot fail; a string longer than 2^32-1 bytes is clamped to fit the
// length prefix.
func EncodeRecords(cats []CategoryRecord, accs []AccountRecord) []byte {
	var b []byte
	for _, c := range cats {
		b = appendUint32(b, categoryMagic)
		b = appendUint32(b, c.ID)
		b = appendString(b, c.Name)
	}
	for _, a := range accs {
		b = appendUint32(b, accountMagic)
		b = appendString(b, a.Name)
		b = appendString(b, a.Login)
		b = appendString(b, a.Password)
		b = appendUint32(b, uint32(len(a.Categories)))
		for _, id := range a.Categories {
			b = appendUint32(b, id)
		}
	}
	return b
}

// DecodeRecords parses a wire stream back into records. The stream must be
// zero or more category records followed by zero or more account records;
// anything else, including truncation at any point, is ErrCorruptData.
func DecodeRecords(data []byte) ([]CategoryRecord, []AccountRecord, error) {
	r := &wireReader{data: data}
	var cats []CategoryRecord
	var accs []AccountRecord
	inAccounts := false

	for r.remaining() > 0 {
		magic, err := r.readUint32()
		if err != nil {
			return nil, nil, err
		}
		switch {
		case magic == categoryMagic && !inAccounts:
			var c CategoryRecord
			if c.ID, err = r.readUint32(); err != nil {
				return nil, nil, err
			}
			if c.Name, err = r.readString(); err != nil {
				return nil, nil, err
			}
			cats = append(cats, c)
		case magic == accountMagic:
			inAccounts = true
			var a AccountRecord
			if a.Name, err = r.readString(); err != nil {
				return nil, nil, err
			}
			if a.Login, err = r.readString(); err != nil {
				return nil, nil, err
			}
			if a.Password, err = r.readString(); err != nil {
				return nil, nil, err
			}
			n, err := r.readUint32()
			if err != nil {
				return nil, nil, err
			}
			if uint64(n)*4 > uint64(r.remaining()) {
				return nil, nil, ErrCorruptData
			}
			a.Categories = make([]uint32, n)
			for i := range a.Categories {
				if a.Categories[i], err = r.readUint32(); err != nil {
					return nil, nil, err
				}
			}
			accs = append(accs, a)
		default:
			// unknown magic, or a category record after the account
			// block already started
			return nil, nil, ErrCorruptData
		}
	}
	return cats, accs, nil
}

type wireReader struct {
	data []byte
	off  int
}

func (r *wireReader) remaining() int { return len(r.data) - r.off }

func (r *wireReader) readUint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrCorruptData
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *wireReader) readString() (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.remaining()) {
		return "", ErrCorruptData
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendString(b []byte, s string) []byte {
	if uint64(len(s)) > math.MaxUint32 {
		s = s[:math.MaxUint32]
	}
	b = appendUint32(b, uint32(len(s)))
	return append(b, s...)
}
