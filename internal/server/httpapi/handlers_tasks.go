package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/gorilla/mux"
)

const taskNotFound = "Task not found"

// TaskService is the owner-scoped task store used by the task handlers.
type TaskService interface {
	List(ctx context.Context, ownerID string, status *string) ([]*models.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	Create(ctx context.Context, ownerID string, in services.CreateTaskInput) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, in services.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// optionalString tells an absent field from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description optionalString `json:"description"`
	Status      *string        `json:"status"`
}

func (req updateTaskRequest) input() services.UpdateTaskInput {
	in := services.UpdateTaskInput{Title: req.Title, Status: req.Status}
	if req.Description.Set {
		d := ""
		if req.Description.Value != nil {
			d = *req.Description.Value
		}
		in.Description = &d
	}
	return in
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	owner, _ := UserIDFromContext(r.Context())

	var status *string
	if q := r.URL.Query(); q.Has("status") {
		s := q.Get("status")
		status = &s
	}

	tasks, err := a.tasks.List(r.Context(), owner, status)
	if err != nil {
		a.fail(w, r, err, taskNotFound)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := UserIDFromContext(r.Context())

	t, err := a.tasks.Get(r.Context(), owner, mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err, taskNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := UserIDFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err, "")
		return
	}

	t, err := a.tasks.Create(r.Context(), owner, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		a.fail(w, r, err, taskNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := UserIDFromContext(r.Context())

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err, "")
		return
	}

	t, err := a.tasks.Update(r.Context(), owner, mux.Vars(r)["id"], req.input())
	if err != nil {
		a.fail(w, r, err, taskNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := UserIDFromContext(r.Context())

	if err := a.tasks.Delete(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		a.fail(w, r, err, taskNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted successfully")
}
