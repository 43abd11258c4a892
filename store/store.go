// Package store holds the in-memory model of the vault: accounts, categories
// and the membership relation between them. Records are owned by the Store
// and reached through id-carrying handles, so a removed record can never be
// read through a leftover reference.
package store

import "errors"

var (
	ErrDuplicateName = errors.New("store: duplicate name")
	ErrInvalidHandle = errors.New("store: invalid handle")
)

// CategoryID identifies a category inside one Store instance. Ids are
// assigned from a counter and never reused for the lifetime of the Store.
type CategoryID uint32

type accountRecord struct {
	name     string
	login    string
	password string
	member   map[CategoryID]struct{}
}

type categoryRecord struct {
	name string
}

// Store owns every account and category record. It is not safe for
// concurrent use; the vault is a single-session, single-writer model.
type Store struct {
	accounts   map[uint32]*accountRecord
	categories map[CategoryID]*categoryRecord

	// insertion order of live records, kept so enumeration and the
	// on-disk encoding are deterministic
	accountOrder  []uint32
	categoryOrder []CategoryID

	accountByName  map[string]uint32
	categoryByName map[string]CategoryID

	nextAccountID  uint32
	nextCategoryID CategoryID
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts:       make(map[uint32]*accountRecord),
		categories:     make(map[CategoryID]*categoryRecord),
		accountByName:  make(map[string]uint32),
		categoryByName: make(map[string]CategoryID),
	}
}

// HasAccount reports whether a live account with the exact name exists.
// Names are compared byte for byte, never trimmed or case-folded.
func (s *Store) HasAccount(name string) bool {
	_, ok := s.accountByName[name]
	return ok
}

// HasCategory reports whether a live category with the exact name exists.
func (s *Store) HasCategory(name string) bool {
	_, ok := s.categoryByName[name]
	return ok
}

// AddAccount creates a new account with an empty category set and returns a
// handle to it. It fails with ErrDuplicateName if a live account already has
// that name.
func (s *Store) AddAccount(name, login, password string) (AccountHandle, error) {
	if _, ok := s.accountByName[name]; ok {
		return AccountHandle{}, ErrDuplicateName
	}
	id := s.nextAccountID
	s.nextAccountID++
	s.accounts[id] = &accountRecord{
		name:     name,
		login:    login,
		password: password,
		member:   make(map[CategoryID]struct{}),
	}
	s.accountOrder = append(s.accountOrder, id)
	s.accountByName[name] = id
	return AccountHandle{s: s, id: id}, nil
}

// GetAccount looks an account up by exact name. Absence is an expected
// outcome of a name query, so it is reported through the bool, not an error.
func (s *Store) GetAccount(name string) (AccountHandle, bool) {
	id, ok := s.accountByName[name]
	if !ok {
		return AccountHandle{}, false
	}
	return AccountHandle{s: s, id: id}, true
}

// RenameAccount changes the account's name, keeping uniqueness intact. On
// failure the old name stays in place.
func (s *Store) RenameAccount(h AccountHandle, newName string) error {
	rec, err := s.account(h)
	if err != nil {
		return err
	}
	if rec.name == newName {
		return nil
	}
	if _, ok := s.accountByName[newName]; ok {
		return ErrDuplicateName
	}
	delete(s.accountByName, rec.name)
	rec.name = newName
	s.accountByName[newName] = h.id
	return nil
}

// ChangePassword replaces the account's password.
func (s *Store) ChangePassword(h AccountHandle, newPassword string) error {
	rec, err := s.account(h)
	if err != nil {
		return err
	}
	rec.password = newPassword
	return nil
}

// RemoveAccount deletes the account. Any handle to it becomes invalid and
// its old name is immediately free for reuse.
func (s *Store) RemoveAccount(h AccountHandle) error {
	rec, err := s.account(h)
	if err != nil {
		return err
	}
	delete(s.accountByName, rec.name)
	delete(s.accounts, h.id)
	s.accountOrder = removeID(s.accountOrder, h.id)
	return nil
}

// AddCategory returns a handle to the named category, creating it if needed.
// Adding a name that already exists returns the existing category.
func (s *Store) AddCategory(name string) CategoryHandle {
	if id, ok := s.categoryByName[name]; ok {
		return CategoryHandle{s: s, id: id}
	}
	id := s.nextCategoryID
	s.nextCategoryID++
	s.categories[id] = &categoryRecord{name: name}
	s.categoryOrder = append(s.categoryOrder, id)
	s.categoryByName[name] = id
	return CategoryHandle{s: s, id: id}
}

// GetCategory looks a category up by exact name.
func (s *Store) GetCategory(name string) (CategoryHandle, bool) {
	id, ok := s.categoryByName[name]
	if !ok {
		return CategoryHandle{}, false
	}
	return CategoryHandle{s: s, id: id}, true
}

// RemoveCategory deletes the category and scrubs its id from every
// account's membership set, so no account is ever left pointing at a dead
// category.
func (s *Store) RemoveCategory(h CategoryHandle) error {
	rec, err := s.category(h)
	if err != nil {
		return err
	}
	for _, a := range s.accounts {
		delete(a.member, h.id)
	}
	delete(s.categoryByName, rec.name)
	delete(s.categories, h.id)
	s.categoryOrder = removeCategoryID(s.categoryOrder, h.id)
	return nil
}

// Accounts returns handles to every live account in insertion order.
func (s *Store) Accounts() []AccountHandle {
	out := make([]AccountHandle, 0, len(s.accountOrder))
	for _, id := range s.accountOrder {
		out = append(out, AccountHandle{s: s, id: id})
	}
	return out
}

// Categories returns handles to every live category in insertion order.
func (s *Store) Categories() []CategoryHandle {
	out := make([]CategoryHandle, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		out = append(out, CategoryHandle{s: s, id: id})
	}
	return out
}

// AccountsWithCategory returns every live account tagged with the category.
func (s *Store) AccountsWithCategory(c CategoryHandle) ([]AccountHandle, error) {
	if _, err := s.category(c); err != nil {
		return nil, err
	}
	var out []AccountHandle
	for _, id := range s.accountOrder {
		if _, ok := s.accounts[id].member[c.id]; ok {
			out = append(out, AccountHandle{s: s, id: id})
		}
	}
	return out, nil
}

func (s *Store) account(h AccountHandle) (*accountRecord, error) {
	if h.s != s {
		return nil, ErrInvalidHandle
	}
	rec, ok := s.accounts[h.id]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return rec, nil
}

func (s *Store) category(h CategoryHandle) (*categoryRecord, error) {
	if h.s != s {
		return nil, ErrInvalidHandle
	}
	rec, ok := s.categories[h.id]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return rec, nil
}

func removeID(ids []uint32, id uint32) []uint32 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeCategoryID(ids []CategoryID, id CategoryID) []CategoryID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
