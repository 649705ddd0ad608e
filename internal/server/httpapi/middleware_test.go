package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	userID string
	err    error
	calls  int
}

func (s *stubVerifier) VerifyToken(string) (string, error) {
	s.calls++
	return s.userID, s.err
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantCalls  int
	}{
		{"missing header", "", &stubVerifier{userID: "u-1"}, http.StatusUnauthorized, 0},
		{"wrong scheme", "Basic abc", &stubVerifier{userID: "u-1"}, http.StatusUnauthorized, 0},
		{"empty token", "Bearer ", &stubVerifier{userID: "u-1"}, http.StatusUnauthorized, 0},
		{"rejected token", "Bearer abc", &stubVerifier{err: common.ErrInvalidToken}, http.StatusUnauthorized, 1},
		{"expired token", "Bearer abc", &stubVerifier{err: common.ErrTokenExpired}, http.StatusUnauthorized, 1},
		{"valid token", "Bearer abc", &stubVerifier{userID: "u-1"}, http.StatusOK, 1},
		{"scheme is case-insensitive", "bearer abc", &stubVerifier{userID: "u-1"}, http.StatusOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				id, ok := UserIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "u-1", id)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Authenticate(tt.verifier)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
			assert.Equal(t, tt.wantCalls, tt.verifier.calls)
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(logging.Nop{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Something went wrong"}`, rec.Body.String())
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{common.NewValidationError("title", "Title is required"), http.StatusBadRequest},
		{common.ErrDuplicateEmail, http.StatusBadRequest},
		{common.ErrDuplicateUsername, http.StatusBadRequest},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{common.ErrorNotFound, http.StatusNotFound},
		{errors.New("db error: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		status, msg := statusFor(tt.err, "Task not found")
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.NotContains(t, msg, "connection refused")
	}
}
