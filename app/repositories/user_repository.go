// Package repositories holds the mock API's in-memory collections. Nothing
// is persisted; a new repository always starts from the seed data.
package repositories

import (
	"slices"
	"sync"

	"github.com/shashiranjanraj/e2esuite/app/models"
	"github.com/shashiranjanraj/e2esuite/pkg/auth"
	"github.com/shashiranjanraj/e2esuite/pkg/metrics"
)

// DefaultPassword is the password every mock account accepts unless one was
// supplied at creation.
const DefaultPassword = "password123"

func seedUsers() []models.User {
	return []models.User{
		{ID: 1, Username: "john_us", Email: "john@example.com", Region: "us"},
		{ID: 2, Username: "jane_eu", Email: "jane@example.com", Region: "eu"},
		{ID: 3, Username: "bob_asia", Email: "bob@example.com", Region: "asia"},
	}
}

// UserRepository is a mutex-guarded, insertion-ordered list of users.
type UserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewUserRepository() *UserRepository {
	r := &UserRepository{}
	r.Reset()
	return r
}

// Reset restores the seed users.
func (r *UserRepository) Reset() {
	hash := mustHash(DefaultPassword)
	users := seedUsers()
	for i := range users {
		users[i].PasswordHash = hash
	}

	r.mu.Lock()
	r.users = users
	r.mu.Unlock()
	metrics.StoreRecords.WithLabelValues("users").Set(float64(len(users)))
}

// All returns users in insertion order, filtered by region when region is
// non-empty.
func (r *UserRepository) All(region string) []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		if region == "" || u.Region == region {
			out = append(out, u)
		}
	}
	return out
}

// FindByID looks a user up by id.
func (r *UserRepository) FindByID(id int) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		return r.users[i], true
	}
	return models.User{}, false
}

// FindByUsername looks a user up by exact username.
func (r *UserRepository) FindByUsername(username string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// Create appends a user. Its id is the collection size plus one, so an id
// freed by Delete can be handed out twice.
func (r *UserRepository) Create(in models.NewUser) (models.User, error) {
	password := in.Password
	if password == "" {
		password = DefaultPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	r.mu.Lock()
	u := models.User{
		ID:           len(r.users) + 1,
		Username:     in.Username,
		Email:        in.Email,
		Region:       in.Region,
		PasswordHash: hash,
	}
	r.users = append(r.users, u)
	n := len(r.users)
	r.mu.Unlock()

	metrics.StoreRecords.WithLabelValues("users").Set(float64(n))
	return u, nil
}

// Update merges patch into the user with id.
func (r *UserRepository) Update(id int, patch models.UserPatch) (models.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return models.User{}, false
	}
	r.users[i] = patch.Apply(r.users[i])
	return r.users[i], true
}

// Delete removes and returns the user with id.
func (r *UserRepository) Delete(id int) (models.User, bool) {
	r.mu.Lock()
	i := r.index(id)
	if i < 0 {
		r.mu.Unlock()
		return models.User{}, false
	}
	u := r.users[i]
	r.users = slices.Delete(r.users, i, i+1)
	n := len(r.users)
	r.mu.Unlock()

	metrics.StoreRecords.WithLabelValues("users").Set(float64(n))
	return u, true
}

func (r *UserRepository) index(id int) int {
	return slices.IndexFunc(r.users, func(u models.User) bool { return u.ID == id })
}

func mustHash(password string) string {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}
