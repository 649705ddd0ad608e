// Package auth issues and verifies bearer tokens, hashes passwords, and
// holds the task ownership rule shared by every task operation.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the registered claims (iat, exp) plus the owning user's identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenSigner issues and verifies self-contained session tokens.
type TokenSigner interface {
	SignToken(userID string) (string, error)
	VerifyToken(token string) (string, error)
}

// JWTSigner is an HS256 TokenSigner.
type JWTSigner struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

// NewJWTSigner builds a signer whose tokens live for validity.
func NewJWTSigner(secretKey []byte, validity time.Duration) *JWTSigner {
	return &JWTSigner{secretKey: secretKey, validity: validity, now: time.Now}
}

// SignToken embeds userID, the issue instant and the expiration instant.
func (s *JWTSigner) SignToken(userID string) (string, error) {
	return GenerateToken(userID, s.secretKey, s.validity, s.now())
}

// VerifyToken returns the embedded user id. Expired tokens yield
// common.ErrTokenExpired, anything else unusable yields common.ErrInvalidToken.
func (s *JWTSigner) VerifyToken(token string) (string, error) {
	return GetUserIDFromToken(token, s.secretKey, s.now)
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration, issuedAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetUserIDFromToken(tokenString string, secretKey []byte, now func() time.Time) (string, error) {
	if tokenString == "" {
		return "", common.ErrInvalidToken
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
