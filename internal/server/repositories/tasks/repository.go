package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository persists tasks. Mutations are keyed by both task id and owner id,
// so a call for a task owned by someone else reports common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// ListByOwner returns the owner's tasks, newest first. A nil status
	// returns every task.
	ListByOwner(ctx context.Context, ownerID string, status *models.TaskStatus) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}
