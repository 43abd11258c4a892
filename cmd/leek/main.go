package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fahmaliyi/leek/cli"
	"github.com/fahmaliyi/leek/config"
	"github.com/fahmaliyi/leek/store"
	"github.com/fahmaliyi/leek/vault"
)

const maxPasswordTries = 3

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if cfg.Debug {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer logger.Sync()
	log := logger.Sugar()

	var (
		s      *store.Store
		master []byte
	)

	if _, err := os.Stat(cfg.VaultPath); os.IsNotExist(err) {
		fmt.Println("No vault found. Setting up new master password.")
		master = cli.ReadPasswordMasked("Set master password: ")
		confirm := cli.ReadPasswordMasked("Confirm master password: ")
		if !bytes.Equal(master, confirm) {
			fmt.Println("Passwords do not match.")
			os.Exit(1)
		}
		vault.Zero(confirm)
		if len(master) == 0 {
			fmt.Println("Master password must not be empty.")
			os.Exit(1)
		}

		s = store.New()
		if err := vault.Save(s, cfg.VaultPath, master); err != nil {
			fmt.Println("Error creating vault:", err)
			os.Exit(1)
		}
		log.Infow("vault created", "path", cfg.VaultPath)
	} else {
		for try := 1; ; try++ {
			master = cli.ReadPasswordMasked("Enter master password: ")
			s, err = vault.Open(cfg.VaultPath, master)
			if err == nil {
				break
			}
			vault.Zero(master)
			if errors.Is(err, vault.ErrWrongPassword) && try < maxPasswordTries {
				fmt.Println("Wrong password, try again.")
				continue
			}
			fmt.Println("Error opening vault:", err)
			os.Exit(1)
		}
		log.Debugw("vault opened", "path", cfg.VaultPath)
	}

	session := cli.NewSession(s, cfg.VaultPath, master,
		time.Duration(cfg.ClipSeconds)*time.Second, log)
	defer session.Close()

	if cfg.TUI {
		cli.RunTUI(session)
	} else {
		session.Run()
	}
}
