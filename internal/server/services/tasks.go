package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CreateTaskInput is the caller-supplied part of a new task. The owner always
// comes from the authenticated identity.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *string
}

// UpdateTaskInput is a partial update; nil fields are left untouched. An
// empty description clears it.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

type TaskService struct {
	exec        dbx.Executor
	repomanager repomanager.RepositoryManager
}

func NewTaskService(exec dbx.Executor, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{exec: exec, repomanager: m}
}

// List returns the owner's tasks, newest first. A nil or empty status lists
// everything; an unknown status is a validation error.
func (s *TaskService) List(ctx context.Context, ownerID string, status *string) ([]*models.Task, error) {
	var filter *models.TaskStatus
	if status != nil && strings.TrimSpace(*status) != "" {
		st, err := parseStatus(*status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}

	repo := s.repomanager.Tasks(s.exec.DB())
	tasks, err := repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	return s.load(ctx, s.exec.DB(), ownerID, taskID)
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:  strings.TrimSpace(in.Title),
		Status: models.TaskStatusTodo,
		UserID: ownerID,
	}
	if err := validateTitle(task.Title); err != nil {
		return nil, err
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if err := validateDescription(d); err != nil {
			return nil, err
		}
		if d != "" {
			task.Description = &d
		}
	}
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		task.Status = st
	}

	repo := s.repomanager.Tasks(s.exec.DB())
	created, err := repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// Update validates the patch before touching storage, then loads, merges and
// writes the task in one transaction.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, in UpdateTaskInput) (*models.Task, error) {
	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}

	var result *models.Task
	err = s.exec.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		task, err := s.load(ctx, tx, ownerID, taskID)
		if err != nil {
			return err
		}
		if patch == (models.TaskPatch{}) {
			result = task
			return nil
		}

		patch.Apply(task)
		if task.Description != nil && *task.Description == "" {
			task.Description = nil
		}

		updated, err := s.repomanager.Tasks(tx).Update(ctx, task)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error updating task: %w", err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.load(ctx, s.exec.DB(), ownerID, taskID); err != nil {
		return err
	}

	err := s.repomanager.Tasks(s.exec.DB()).Delete(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

// load fetches a task by id alone and then applies the ownership check. A
// missing task and a task owned by someone else are both ErrorNotFound.
func (s *TaskService) load(ctx context.Context, db dbx.DBTX, ownerID, taskID string) (*models.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, common.ErrorNotFound
	}

	task, err := s.repomanager.Tasks(db).GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading task: %w", err)
	}

	if !auth.ScopeToOwner(ownerID, task.UserID) {
		return nil, common.ErrorNotFound
	}
	return task, nil
}

func buildPatch(in UpdateTaskInput) (models.TaskPatch, error) {
	var p models.TaskPatch

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if err := validateTitle(t); err != nil {
			return p, err
		}
		p.Title = &t
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if err := validateDescription(d); err != nil {
			return p, err
		}
		p.Description = &d
	}
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	return p, nil
}
