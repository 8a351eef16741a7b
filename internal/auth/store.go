package auth

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when no user matches the given email.
var ErrUserNotFound = errors.New("user not found")

// MemoryUserStore holds the seeded user set, keyed by lowercased email.
type MemoryUserStore struct {
	byEmail map[string]*User
}

// NewMemoryUserStore builds a store from the given users. Later entries
// with a duplicate email replace earlier ones.
func NewMemoryUserStore(users []User) *MemoryUserStore {
	byEmail := make(map[string]*User, len(users))
	for i := range users {
		u := users[i]
		byEmail[strings.ToLower(u.Email)] = &u
	}
	return &MemoryUserStore{byEmail: byEmail}
}

// FindByEmail looks up a user case-insensitively by email.
func (m *MemoryUserStore) FindByEmail(email string) (*User, error) {
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

var _ UserStore = (*MemoryUserStore)(nil)
