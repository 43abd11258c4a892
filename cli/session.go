// Package cli is the interactive shell around the vault: a line-based
// command prompt, masked password input, clipboard integration and a
// full-screen browser.
package cli

import (
	"time"

	"go.uber.org/zap"

	"github.com/fahmaliyi/leek/store"
	"github.com/fahmaliyi/leek/vault"
)

// Session ties an open store to its file path and master password so every
// mutating command can persist immediately.
type Session struct {
	Store *store.Store
	Path  string

	master  []byte
	clipTTL time.Duration
	log     *zap.SugaredLogger
}

func NewSession(s *store.Store, path string, master []byte, clipTTL time.Duration, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		Store:   s,
		Path:    path,
		master:  master,
		clipTTL: clipTTL,
		log:     log,
	}
}

// Save writes the store back to disk under the session's master password.
func (s *Session) Save() error {
	if err := vault.Save(s.Store, s.Path, s.master); err != nil {
		s.log.Errorw("save vault", "path", s.Path, "err", err)
		return err
	}
	s.log.Debugw("vault saved", "path", s.Path)
	return nil
}

// Close wipes the master password. The session is unusable afterwards.
func (s *Session) Close() {
	vault.Zero(s.master)
	s.master = nil
}
