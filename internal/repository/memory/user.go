package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	r := &UserRepository{users: make(map[string]user.User, len(users))}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// Put inserts or replaces u.
func (r *UserRepository) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) ListActiveEmployees(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []user.User
	for _, u := range r.users {
		if u.Role == user.RoleEmployee && u.Status == user.StatusActive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *UserRepository) lookup(id string) (user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

type seedUser struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   user.Role   `json:"role"`
	Status user.Status `json:"status"`
}

// LoadUsers decodes a JSON array of users. Status defaults to active.
func LoadUsers(r io.Reader) ([]user.User, error) {
	var seeds []seedUser
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]user.User, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, s := range seeds {
		if !validator.IsValidUUID(s.ID) {
			return nil, fmt.Errorf("user %d: id must be a valid UUID", i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("user %d: duplicate id %s", i, s.ID)
		}
		seen[s.ID] = struct{}{}

		if s.Role != user.RoleAdmin && s.Role != user.RoleEmployee {
			return nil, fmt.Errorf("user %d: role must be one of: admin, employee", i)
		}
		if s.Status == "" {
			s.Status = user.StatusActive
		}
		if s.Status != user.StatusActive && s.Status != user.StatusInactive {
			return nil, fmt.Errorf("user %d: status must be one of: active, inactive", i)
		}

		users = append(users, user.User{ID: s.ID, Name: s.Name, Email: s.Email, Role: s.Role, Status: s.Status})
	}
	return users, nil
}

// LoadUsersFile reads the users at path into a new repository.
func LoadUsersFile(path string) (*UserRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close()

	users, err := LoadUsers(f)
	if err != nil {
		return nil, err
	}
	return NewUserRepository(users...), nil
}
