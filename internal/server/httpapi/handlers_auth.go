package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
)

// IdentityService is the credential and identity manager used by the auth
// handlers and the authorization gate.
type IdentityService interface {
	TokenVerifier
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetCurrentUser(ctx context.Context, userID string) (*models.User, error)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.UserName, Email: u.Email}
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err, "")
		return
	}

	res, err := a.users.Register(r.Context(), req.Username, req.Email, req.Password)
	a.metrics.authEvent("register", err)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err, "")
		return
	}

	res, err := a.users.Login(r.Context(), req.Email, req.Password)
	a.metrics.authEvent("login", err)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	u, err := a.users.GetCurrentUser(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}
