package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// ReadLine prompts and reads one trimmed line from the reader.
func ReadLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// ReadPassword reads a line with terminal echo disabled.
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return pw, err
}

// ReadPasswordMasked reads a password echoing '*' per typed rune.
func ReadPasswordMasked(prompt string) []byte {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		// not a terminal; fall back to plain echo-less read
		pw, _ := term.ReadPassword(fd)
		fmt.Println()
		return pw
	}
	defer term.Restore(fd, state)

	var input []rune
	for {
		var buf [1]byte
		if _, err := os.Stdin.Read(buf[:]); err != nil {
			fmt.Println()
			return []byte(string(input))
		}
		c := buf[0]

		switch c {
		case 13, 10: // Enter
			fmt.Println()
			return []byte(string(input))
		case 3: // Ctrl+C
			fmt.Println()
			term.Restore(fd, state)
			os.Exit(1)
		case 127, 8: // Backspace
			if len(input) > 0 {
				input = input[:len(input)-1]
				fmt.Print("\b \b")
			}
		default:
			r, _ := utf8.DecodeRune(buf[:])
			input = append(input, r)
			fmt.Print("*")
		}
	}
}
