package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

var testArgon2 = auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

type fixture struct {
	rm    *repomanager.MemoryRepositoryManager
	users *UserService
	tasks *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	exec := dbx.NopExecutor{}
	return &fixture{
		rm:    rm,
		users: NewUserService(exec, rm, auth.NewJWTSigner([]byte("test-secret"), time.Hour), auth.NewArgon2Hasher(testArgon2)),
		tasks: NewTaskService(exec, rm),
	}
}

func (f *fixture) register(t *testing.T, username, email string) *AuthResult {
	t.Helper()
	res, err := f.users.Register(context.Background(), username, email, "secret1")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return res
}

// failingManager forces storage failures through the service layer.
type failingManager struct {
	users users.Repository
	tasks tasks.Repository
}

func (m *failingManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *failingManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *failingManager) Tasks(dbx.DBTX) tasks.Repository              { return m.tasks }

type brokenUsers struct{ err error }

func (r brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, r.err }
func (r brokenUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, r.err
}
func (r brokenUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, r.err
}
func (r brokenUsers) GetUserByID(context.Context, string) (*models.User, error) { return nil, r.err }

type brokenTasks struct {
	tasks.Repository
	err error
}

func (r brokenTasks) ListByOwner(context.Context, string, *models.TaskStatus) ([]*models.Task, error) {
	return nil, r.err
}
func (r brokenTasks) GetByID(context.Context, string) (*models.Task, error) { return nil, r.err }
func (r brokenTasks) Create(context.Context, *models.Task) (*models.Task, error) {
	return nil, r.err
}

type fakeSigner struct {
	userID string
	err    error
}

func (f fakeSigner) SignToken(string) (string, error) { return "", f.err }
func (f fakeSigner) VerifyToken(string) (string, error) {
	return f.userID, f.err
}

// racingUsers passes the advisory lookups and rejects the insert, as a
// repository does when a concurrent registration wins.
type racingUsers struct {
	brokenUsers
	createErr error
}

func (r racingUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, r.createErr
}
func (r racingUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, common.ErrorNotFound
}
func (r racingUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, common.ErrorNotFound
}

// recordingHasher delegates verification and records the hashes it was
// asked to check. HashPassword fails when hashErr is set.
type recordingHasher struct {
	auth.PasswordHasher
	hashErr  error
	verified []string
}

func (h *recordingHasher) HashPassword(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return h.PasswordHasher.HashPassword(password)
}

func (h *recordingHasher) VerifyPasswordHash(encoded, password string) (bool, error) {
	h.verified = append(h.verified, encoded)
	return h.PasswordHasher.VerifyPasswordHash(encoded, password)
}
