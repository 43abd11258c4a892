package store

// AccountHandle is a weak reference to an account: just the owning store and
// an id. It caches nothing, so every read goes through the store and a
// handle to a removed account fails with ErrInvalidHandle instead of
// returning stale data.
type AccountHandle struct {
	s  *Store
	id uint32
}

// Name returns the account's current name.
func (h AccountHandle) Name() (string, error) {
	rec, err := h.s.account(h)
	if err != nil {
		return "", err
	}
	return rec.name, nil
}

// Login returns the account's login.
func (h AccountHandle) Login() (string, error) {
	rec, err := h.s.account(h)
	if err != nil {
		return "", err
	}
	return rec.login, nil
}

// Password returns the account's password.
func (h AccountHandle) Password() (string, error) {
	rec, err := h.s.account(h)
	if err != nil {
		return "", err
	}
	return rec.password, nil
}

// AddCategory tags the account with the category. Tagging twice is a no-op;
// membership has set semantics.
func (h AccountHandle) AddCategory(c CategoryHandle) error {
	rec, err := h.s.account(h)
	if err != nil {
		return err
	}
	if _, err := h.s.category(c); err != nil {
		return err
	}
	rec.member[c.id] = struct{}{}
	return nil
}

// RemoveCategory untags the account. Removing a category the account does
// not carry is a no-op, not an error.
func (h AccountHandle) RemoveCategory(c CategoryHandle) error {
	rec, err := h.s.account(h)
	if err != nil {
		return err
	}
	if _, err := h.s.category(c); err != nil {
		return err
	}
	delete(rec.member, c.id)
	return nil
}

// HasCategory reports whether the account is tagged with the category.
func (h AccountHandle) HasCategory(c CategoryHandle) (bool, error) {
	rec, err := h.s.account(h)
	if err != nil {
		return false, err
	}
	if _, err := h.s.category(c); err != nil {
		return false, err
	}
	_, ok := rec.member[c.id]
	return ok, nil
}

// Categories returns the account's categories in the store's enumeration
// order.
func (h AccountHandle) Categories() ([]CategoryHandle, error) {
	rec, err := h.s.account(h)
	if err != nil {
		return nil, err
	}
	var out []CategoryHandle
	for _, id := range h.s.categoryOrder {
		if _, ok := rec.member[id]; ok {
			out = append(out, CategoryHandle{s: h.s, id: id})
		}
	}
	return out, nil
}

// CategoryHandle is a weak reference to a category.
type CategoryHandle struct {
	s  *Store
	id CategoryID
}

// ID returns the store-assigned category id. The id stays valid for the
// lifetime of the category inside its store.
func (h CategoryHandle) ID() CategoryID { return h.id }

// Name returns the category's name.
func (h CategoryHandle) Name() (string, error) {
	rec, err := h.s.category(h)
	if err != nil {
		return "", err
	}
	return rec.name, nil
}
