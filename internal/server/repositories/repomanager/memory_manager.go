package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out the same process-local stores regardless
// of the DBTX passed in; use it with dbx.NopExecutor.
type MemoryRepositoryManager struct {
	users *memory.UsersRepository
	tasks *memory.TasksRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: memory.NewUsersRepository(),
		tasks: memory.NewTasksRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Tasks(dbx.DBTX) tasks.Repository { return m.tasks }

// UserStore exposes the concrete users store. The app reads its size on
// shutdown; tests use it to inspect stored state.
func (m *MemoryRepositoryManager) UserStore() *memory.UsersRepository { return m.users }

// TaskStore exposes the concrete tasks store.
func (m *MemoryRepositoryManager) TaskStore() *memory.TasksRepository { return m.tasks }
