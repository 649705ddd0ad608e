// Package common contains shared constants and sentinel errors used across
// the task tracker components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme accepted by the API.
const BearerScheme = "Bearer"

// RequestIDHeaderName is propagated from the client or generated per request.
const RequestIDHeaderName = "X-Request-Id"
