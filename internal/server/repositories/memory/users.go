// Package memory holds process-local repository implementations used when
// the server runs without a database, and by service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/google/uuid"
)

// UsersRepository enforces email and username uniqueness at insert time,
// under the same lock that performs the insert.
type UsersRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	byName  map[string]string
	now     func() time.Time
}

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
		now:     time.Now,
	}
}

func (r *UsersRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrDuplicateUsername
	}

	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now().UTC()

	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	r.byName[stored.UserName] = stored.ID

	out := stored
	return &out, nil
}

func (r *UsersRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail[email])
}

func (r *UsersRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byName[login])
}

func (r *UsersRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id)
}

// lookup must be called with r.mu held.
func (r *UsersRepository) lookup(id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

// Count returns the number of stored users.
func (r *UsersRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
