package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory user store with the same semantics as the
// Postgres repository: case-insensitive unique emails, store-assigned
// identifiers and timestamps. Used in dev mode and by tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

// NewMemoryRepository builds an empty in-memory user store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]User)}
}

func (r *MemoryRepository) Create(_ context.Context, fields NewUser) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(fields.Email)
	if _, exists := r.byEmail[key]; exists {
		return User{}, ErrEmailTaken
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        key,
		FirstName:    fields.FirstName,
		LastName:     fields.LastName,
		PasswordHash: fields.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byEmail[key] = user
	return user, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepository) List(_ context.Context) ([]Public, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]Public, 0, len(r.byEmail))
	for _, user := range r.byEmail {
		users = append(users, user.Public())
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// Delete removes a user by identifier. Account deletion is not part of the
// HTTP surface; tests use it to simulate a token outliving its account.
func (r *MemoryRepository) Delete(_ context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, user := range r.byEmail {
		if user.ID == id {
			delete(r.byEmail, key)
			return true
		}
	}
	return false
}
