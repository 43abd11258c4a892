// Package config resolves runtime settings from a .env file, environment
// variables and command-line flags, in that order of increasing priority.
package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	VaultPath   string `env:"LEEK_VAULT_PATH"`
	Debug       bool   `env:"LEEK_DEBUG"`
	ClipSeconds int    `env:"LEEK_CLIP_SECONDS"`
	TUI         bool   `env:"-"` // flag only
}

// Load builds the configuration from args (normally os.Args[1:]). Flags
// override env vars, which override the .env file; anything still unset
// falls back to defaults.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("leek", flag.ContinueOnError)
	fs.StringVar(&cfg.VaultPath, "vault", cfg.VaultPath, "path to the vault file")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	fs.IntVar(&cfg.ClipSeconds, "clip-seconds", cfg.ClipSeconds, "seconds before the clipboard is cleared after a copy")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "start the full-screen interface instead of the command prompt")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ClipSeconds <= 0 {
		cfg.ClipSeconds = 30
	}
	if cfg.VaultPath == "" {
		p, err := DefaultVaultPath()
		if err != nil {
			return nil, err
		}
		cfg.VaultPath = p
	}
	return cfg, nil
}

// DefaultVaultPath is ~/.leek/vault.leek, creating the directory if needed.
func DefaultVaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".leek")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "vault.leek"), nil
}
