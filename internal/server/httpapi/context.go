package httpapi

import "context"

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
	reqInfoKey   ctxKey = "requestInfo"
)

// UserIDFromContext returns the identity attached by the Authenticate gate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestInfo is filled in by inner handlers and read by the access log.
type requestInfo struct {
	userID string
}

func infoFromContext(ctx context.Context) *requestInfo {
	ri, _ := ctx.Value(reqInfoKey).(*requestInfo)
	return ri
}
