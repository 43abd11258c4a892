package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fahmaliyi/leek/generator"
	"github.com/fahmaliyi/leek/store"
	"github.com/fahmaliyi/leek/vault"
)

// handleAdd prompts for a new account and saves the vault. Leaving the
// password empty generates one.
func handleAdd(s *Session, reader *bufio.Reader) {
	name := ReadLine(reader, "Name: ")
	if name == "" {
		fmt.Println("Name must not be empty")
		return
	}
	if s.Store.HasAccount(name) {
		fmt.Println("An account with that name already exists")
		return
	}
	login := ReadLine(reader, "Login: ")

	pw := ReadPasswordMasked("Password (empty = generate): ")
	password := string(pw)
	vault.Zero(pw)
	if password == "" {
		var err error
		password, err = generator.New(generator.DefaultOptions())
		if err != nil {
			fmt.Println("Error generating password:", err)
			return
		}
		fmt.Println("Generated:", password)
	}

	h, err := s.Store.AddAccount(name, login, password)
	if err == store.ErrDuplicateName {
		fmt.Println("An account with that name already exists")
		return
	}

	for {
		cat := ReadLine(reader, "Category (empty to finish): ")
		if cat == "" {
			break
		}
		if err := h.AddCategory(s.Store.AddCategory(cat)); err != nil {
			fmt.Println("Error tagging account:", err)
			break
		}
	}

	if err := s.Save(); err != nil {
		fmt.Println("Error saving vault:", err)
	} else {
		fmt.Println("Account added!")
	}
}

// AddAccountCLI is the plain-prompt add flow, exported for the TUI which
// drops back to line mode for text entry.
func AddAccountCLI(s *Session) {
	fmt.Print("\n--- Add New Account ---\n")
	handleAdd(s, bufio.NewReader(os.Stdin))
}
