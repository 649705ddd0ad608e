package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/google/uuid"
)

type taskRecord struct {
	task models.Task
	seq  uint64
}

// TasksRepository keeps tasks in insertion order; seq breaks created_at ties
// so listings stay newest first.
type TasksRepository struct {
	mu    sync.RWMutex
	tasks map[string]*taskRecord
	seq   uint64
	now   func() time.Time
}

func NewTasksRepository() *TasksRepository {
	return &TasksRepository{
		tasks: make(map[string]*taskRecord),
		now:   time.Now,
	}
}

func copyTask(t models.Task) *models.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return &t
}

func (r *TasksRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *copyTask(*task)
	stored.ID = uuid.NewString()
	now := r.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.seq++
	r.tasks[stored.ID] = &taskRecord{task: stored, seq: r.seq}

	return copyTask(stored), nil
}

func (r *TasksRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyTask(rec.task), nil
}

func (r *TasksRepository) ListByOwner(ctx context.Context, ownerID string, status *models.TaskStatus) ([]*models.Task, error) {
	r.mu.RLock()
	recs := make([]*taskRecord, 0)
	for _, rec := range r.tasks {
		if rec.task.UserID != ownerID {
			continue
		}
		if status != nil && rec.task.Status != *status {
			continue
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]*models.Task, 0, len(recs))
	for _, rec := range recs {
		result = append(result, copyTask(rec.task))
	}
	r.mu.RUnlock()

	return result, nil
}

func (r *TasksRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks[task.ID]
	if !ok || rec.task.UserID != task.UserID {
		return nil, common.ErrorNotFound
	}

	rec.task.Title = task.Title
	rec.task.Description = copyTask(*task).Description
	rec.task.Status = task.Status
	rec.task.UpdatedAt = r.now().UTC()

	return copyTask(rec.task), nil
}

func (r *TasksRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks[id]
	if !ok || rec.task.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.tasks, id)
	return nil
}

// Count returns the number of stored tasks across all owners.
func (r *TasksRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
