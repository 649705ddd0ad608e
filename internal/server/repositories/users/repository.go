package users

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository persists user accounts. Lookups return common.ErrorNotFound when
// nothing matches; Create reports uniqueness violations as
// common.ErrDuplicateEmail / common.ErrDuplicateUsername.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
