// Package memory provides an in-process user store with the same contract as
// the PostgreSQL repository. It backs the test suites of the service and HTTP
// layers.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/artem13815/useradmin/pkg/auth"
	"github.com/artem13815/useradmin/pkg/users"
)

// UserRepository implements users.Repository and auth.UserRepository.
type UserRepository struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]users.User
	order   []uuid.UUID
	byEmail map[string]uuid.UUID

	// BatchErr, when set, is returned by CreateBatch after validating the
	// batch and before storing anything.
	BatchErr error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]users.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func matches(f users.Filter, u users.User) bool {
	return f.Age == nil || *f.Age == u.Age
}

func (r *UserRepository) List(_ context.Context, f users.Filter, limit, offset int) ([]users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []users.User
	skipped := 0
	for _, id := range r.order {
		u := r.byID[id]
		if !matches(f, u) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *UserRepository) Count(_ context.Context, f users.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if matches(f, u) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	u := r.byID[id]
	return auth.User{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
}

func (r *UserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *UserRepository) ExistingEmails(_ context.Context, emails []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	seen := make(map[string]bool)
	for _, e := range emails {
		if _, ok := r.byEmail[e]; ok && !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *UserRepository) Create(_ context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return users.ErrEmailExists
	}
	r.put(u)
	return nil
}

func (r *UserRepository) CreateBatch(_ context.Context, us []users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool, len(us))
	for _, u := range us {
		if _, ok := r.byEmail[u.Email]; ok || seen[u.Email] {
			return users.ErrEmailExists
		}
		seen[u.Email] = true
	}
	if r.BatchErr != nil {
		return r.BatchErr
	}
	for _, u := range us {
		r.put(u)
	}
	return nil
}

func (r *UserRepository) Upsert(_ context.Context, u users.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return false, nil
	}
	r.put(u)
	return true, nil
}

// Len returns the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *UserRepository) put(u users.User) {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.order = append(r.order, u.ID)
}
