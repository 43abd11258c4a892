// Package generator produces random passwords from crypto/rand.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>?"
)

// Options selects the length and character classes of a generated password.
// Every enabled class is guaranteed to appear at least once.
type Options struct {
	Length  int
	Lower   bool
	Upper   bool
	Digits  bool
	Symbols bool
}

// DefaultOptions is 20 characters drawn from all four classes.
func DefaultOptions() Options {
	return Options{Length: 20, Lower: true, Upper: true, Digits: true, Symbols: true}
}

// New generates a password. It fails if no class is enabled or the length
// is too short to fit one character of each enabled class.
func New(opts Options) (string, error) {
	var classes []string
	if opts.Lower {
		classes = append(classes, lowerChars)
	}
	if opts.Upper {
		classes = append(classes, upperChars)
	}
	if opts.Digits {
		classes = append(classes, digitChars)
	}
	if opts.Symbols {
		classes = append(classes, symbolChars)
	}
	if len(classes) == 0 {
		return "", errors.New("generator: no character classes enabled")
	}
	if opts.Length < len(classes) {
		return "", errors.New("generator: length too short for enabled classes")
	}

	var all string
	for _, c := range classes {
		all += c
	}

	out := make([]byte, 0, opts.Length)
	for _, c := range classes {
		ch, err := pick(c)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < opts.Length {
		ch, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	// shuffle so the guaranteed class characters are not all up front
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func pick(charset string) (byte, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[i.Int64()], nil
}
