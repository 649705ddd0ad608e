package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
)

const maxBodyBytes = 1 << 20

var (
	errBodyTooLarge = errors.New("request body too large")
	errInvalidBody  = errors.New("invalid request body")
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", errInvalidBody)
	}
	return nil
}

// statusFor maps domain errors onto a status code and a client-safe message.
// notFoundMsg names the missing resource.
func statusFor(err error, notFoundMsg string) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, "User with this email already exists"
	case errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username is already taken"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, notFoundMsg
	default:
		return http.StatusInternalServerError, "Server error"
	}
}
