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

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User
	Token string
}

type UserService struct {
	exec        dbx.Executor
	repomanager repomanager.RepositoryManager
	signer      auth.TokenSigner
	hasher      auth.PasswordHasher

	// dummyHash is verified on logins for unknown emails.
	dummyHash string
}

// fallbackDummyHash is a well-formed argon2id hash of no known password.
// It is used when the hasher cannot produce a dummy hash of its own.
const fallbackDummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAECAwQFBgcICQoLDA0ODw$ICEiIyQlJicoKSorLC0uLzAxMjM0NTY3ODk6Ozw9Pj8"

func NewUserService(exec dbx.Executor, m repomanager.RepositoryManager, signer auth.TokenSigner, hasher auth.PasswordHasher) *UserService {
	dummy, err := hasher.HashPassword(uuid.NewString())
	if err != nil || dummy == "" {
		dummy = fallbackDummyHash
	}
	return &UserService{
		exec:        exec,
		repomanager: m,
		signer:      signer,
		hasher:      hasher,
		dummyHash:   dummy,
	}
}

// Register validates input, checks uniqueness, stores the user with a hashed
// password and issues a token. The lookups here are advisory; a racing
// insert is still rejected by the repository with the same errors.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {

	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.exec.DB())

	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	if _, err := repo.GetUserByLogin(ctx, username); err == nil {
		return nil, common.ErrDuplicateUsername
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) || errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password. A hash is verified in both cases so response timing does not
// tell them apart.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {

	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, common.NewValidationError("password", "Password is required")
	}

	repo := s.repomanager.Users(s.exec.DB())
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.VerifyPasswordHash(s.dummyHash, password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.VerifyPasswordHash(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(user)
}

// VerifyToken returns the user id embedded in a valid, unexpired token.
// Every failure matches common.ErrUnauthenticated; expiry additionally
// matches common.ErrTokenExpired.
func (s *UserService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthenticated
	}
	userID, err := s.signer.VerifyToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}
	return userID, nil
}

// GetCurrentUser returns the user without the password hash.
func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Users(s.exec.DB())
	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.signer.SignToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}
	user.PasswordHash = ""
	return &AuthResult{User: user, Token: token}, nil
}
