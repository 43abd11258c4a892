package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/fahmaliyi/leek/generator"
	"github.com/fahmaliyi/leek/store"
)

// Run starts the interactive command loop and blocks until the user quits.
func (s *Session) Run() {
	reader := bufio.NewReader(os.Stdin)
	var idMap map[int]store.AccountHandle

	for {
		fmt.Println("\nCommands: a=add, l=list, s N=show, c N=copy, d N=delete, r N=rename, p N=passwd,")
		fmt.Println("          g=generate, t N=tag, u N=untag, k=categories, x=delete category, f=filter, q=quit")
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "a":
			handleAdd(s, reader)
			idMap = nil
		case "l":
			idMap = handleList(s)
		case "g":
			handleGenerate(reader)
		case "k":
			handleCategories(s)
		case "x":
			handleDeleteCategory(s, reader)
		case "f":
			idMap = handleFilter(s, reader)
		case "s", "c", "d", "r", "p", "t", "u":
			if len(parts) < 2 {
				fmt.Println("Specify account number (run l first)")
				continue
			}
			var num int
			fmt.Sscanf(parts[1], "%d", &num)
			h, ok := idMap[num]
			if !ok {
				fmt.Println("Invalid account number")
				continue
			}
			switch cmd {
			case "s":
				handleShow(h)
			case "c":
				handleCopy(s, h)
			case "d":
				handleDelete(s, h)
				idMap = nil
			case "r":
				handleRename(s, reader, h)
			case "p":
				handlePasswd(s, h)
			case "t":
				handleTag(s, reader, h)
			case "u":
				handleUntag(s, reader, h)
			}
		case "q":
			fmt.Println("Exiting.")
			return
		default:
			fmt.Println("Unknown command")
		}
	}
}

// --- Individual command handlers ---

func handleList(s *Session) map[int]store.AccountHandle {
	idMap := make(map[int]store.AccountHandle)
	fmt.Println("Accounts:")
	for i, h := range s.Store.Accounts() {
		num := i + 1
		idMap[num] = h
		printAccountLine(num, h)
	}
	return idMap
}

func printAccountLine(num int, h store.AccountHandle) {
	name, _ := h.Name()
	login, _ := h.Login()
	cats, _ := h.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		if n, err := c.Name(); err == nil {
			names = append(names, n)
		}
	}
	fmt.Printf("%d) %-24s login: %-20s [%s]\n", num, name, login, strings.Join(names, ", "))
}

func handleShow(h store.AccountHandle) {
	name, err := h.Name()
	if err != nil {
		fmt.Println("Account not found")
		return
	}
	login, _ := h.Login()
	password, _ := h.Password()
	fmt.Printf("Name: %s\nLogin: %s\nPassword: %s\n", name, login, password)
}

func handleCopy(s *Session, h store.AccountHandle) {
	password, err := h.Password()
	if err != nil {
		fmt.Println("Account not found")
		return
	}
	if err := clipboard.WriteAll(password); err != nil {
		fmt.Println("Clipboard unavailable:", err)
		return
	}
	fmt.Printf("Password copied to clipboard. Clearing in %d seconds...\n", int(s.clipTTL.Seconds()))
	time.AfterFunc(s.clipTTL, func() {
		clipboard.WriteAll("")
	})
}

func handleDelete(s *Session, h store.AccountHandle) {
	if err := s.Store.RemoveAccount(h); err != nil {
		fmt.Println("Account not found")
		return
	}
	if err := s.Save(); err != nil {
		fmt.Println("Error saving vault:", err)
	} else {
		fmt.Println("Account deleted!")
	}
}

func handleRename(s *Session, reader *bufio.Reader, h store.AccountHandle) {
	newName := ReadLine(reader, "New name: ")
	if newName == "" {
		fmt.Println("Name unchanged")
		return
	}
	switch err := s.Store.RenameAccount(h, newName); err {
	case nil:
	case store.ErrDuplicateName:
		fmt.Println("An account with that name already exists")
		return
	default:
		fmt.Println("Account not found")
		return
	}
	if err := s.Save(); err != nil {
		fmt.Println("Error saving vault:", err)
	} else {
		fmt.Println("Account renamed!")
	}
}

func handlePasswd(s *Session, h store.AccountHandle) {
	pw := ReadPasswordMasked("New password (empty = generate): ")
	password := string(pw)
	if password == "" {
		var err error
		password, err = generator.New(generator.DefaultOptions())
		if err != nil {
			fmt.Println("Error generating password:", err)
			return
		}
		fmt.Println("Generated:", password)
	}
	if err := s.Store.ChangePassword(h, password); err != nil {
		fmt.Println("Account not found")
		return
	}
	if err := s.Save(); err != nil {
		fmt.Println("Error saving vault:", err)
	} else {
		fmt.Println("Password changed!")
	}
}

func handleGenerate(reader *bufio.Reader) {
	opts := generator.DefaultOptions()
	if lenStr := ReadLine(reader, fmt.Sprintf("Length [%d]: ", opts.Length)); lenStr != "" {
		fmt.Sscanf(lenStr, "%d", &opts.Length)
	}
	pw, err := generator.New(opts)
	if err != nil {
		fmt.Println("Error generating password:", err)
		return
	}
	fmt.Println(pw)
}

func handleTag(s *Session, reader *bufio.Reader, h store.AccountHandle) {
	name := ReadLine(reader, "Category: ")
	if name == "" {
		return
	}
	c := s.Store.AddCategory(name)
	if err := h.AddCategory(c); err != nil {
		fmt.Println("Account not found")
		return
	}
	if err := s.Save(); err != nil {
		fmt.Println("Error saving vault:", err)
	} else {
		fmt.Println("Tagged!")
	}
}

func handleUntag(s *Session, reader *bufio.Reader, h store.AccountHandle) {
	name := ReadLine(reader, "Category: ")
	c, ok := s.Store.GetCategory(name)
	if !ok {
		fmt.Println("No such category")
		return
	}
	if err := h.RemoveCategory(c); err != nil {
		fmt.Println("Account not found")
		return
	}
	if err := s.Save(); err != nil {
		fmt.Println("Error saving vault:", err)
	} else {
		fmt.Println("Untagged!")
	}
}

func handleCategories(s *Session) {
	cats := s.Store.Categories()
	if len(cats) == 0 {
		fmt.Println("No categories")
		return
	}
	fmt.Println("Categories:")
	for _, c := range cats {
		name, _ := c.Name()
		tagged, _ := s.Store.AccountsWithCategory(c)
		fmt.Printf("  %-24s %d account(s)\n", name, len(tagged))
	}
}

func handleDeleteCategory(s *Session, reader *bufio.Reader) {
	name := ReadLine(reader, "Category: ")
	c, ok := s.Store.GetCategory(name)
	if !ok {
		fmt.Println("No such category")
		return
	}
	if err := s.Store.RemoveCategory(c); err != nil {
		fmt.Println("No such category")
		return
	}
	if err := s.Save(); err != nil {
		fmt.Println("Error saving vault:", err)
	} else {
		fmt.Println("Category deleted!")
	}
}

func handleFilter(s *Session, reader *bufio.Reader) map[int]store.AccountHandle {
	name := ReadLine(reader, "Category: ")
	c, ok := s.Store.GetCategory(name)
	if !ok {
		fmt.Println("No such category")
		return nil
	}
	tagged, err := s.Store.AccountsWithCategory(c)
	if err != nil {
		fmt.Println("No such category")
		return nil
	}
	idMap := make(map[int]store.AccountHandle)
	fmt.Printf("Accounts in %q:\n", name)
	for i, h := range tagged {
		num := i + 1
		idMap[num] = h
		printAccountLine(num, h)
	}
	return idMap
}
