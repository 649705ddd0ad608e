package models

import (
	"strings"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in progress"
	TaskStatusDone       TaskStatus = "done"
)

// ParseTaskStatus accepts the wire values and the "in-progress" spelling.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch strings.TrimSpace(s) {
	case string(TaskStatusTodo):
		return TaskStatusTodo, true
	case string(TaskStatusInProgress), "in-progress":
		return TaskStatusInProgress, true
	case string(TaskStatusDone):
		return TaskStatusDone, true
	}
	return "", false
}

// Task is owned by exactly one user (UserID).
type Task struct {
	ID          string
	Title       string
	Description *string
	Status      TaskStatus
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// Apply merges p into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}
