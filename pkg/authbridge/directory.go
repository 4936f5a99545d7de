package authbridge

import (
	"context"
	"sync"
)

// LocalUser is the host application's user record. The bridge only ever
// looks users up or creates them; it never deletes or disables them.
type LocalUser struct {
	Username string
}

// UserDirectory models the host application's user store, keyed by username.
type UserDirectory interface {
	// GetUserByName returns the user with the given name, or nil when absent.
	GetUserByName(ctx context.Context, name string) (*LocalUser, error)
	// CreateUser creates and returns a user with the given name.
	CreateUser(ctx context.Context, name string) (*LocalUser, error)
}

// InMemoryDirectory is a UserDirectory backed by a map, for the demo binary
// and tests. Hosts embed the bridge with their own directory implementation.
type InMemoryDirectory struct {
	mu    sync.Mutex
	users map[string]*LocalUser
}

// NewInMemoryDirectory creates an empty in-memory directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		users: make(map[string]*LocalUser),
	}
}

func (d *InMemoryDirectory) GetUserByName(_ context.Context, name string) (*LocalUser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.users[name], nil
}

func (d *InMemoryDirectory) CreateUser(_ context.Context, name string) (*LocalUser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.users[name]; ok {
		return existing, nil
	}
	user := &LocalUser{Username: name}
	d.users[name] = user
	return user, nil
}
