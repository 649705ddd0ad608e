package config

import (
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/dmitrijs2005/tasktracker/internal/timex"
)

// lookupFunc has the signature of os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays values from environment variables:
//
//	ADDRESS          HTTP bind address
//	GRPC_ADDRESS     gRPC health bind address ("" disables)
//	DATABASE_DSN     PostgreSQL DSN
//	STORAGE_TYPE     postgres | memory
//	JWT_SECRET       token signing secret
//	JWT_EXPIRES_IN   token lifetime, Go duration or days ("24h", "7d")
//	FRONTEND_URL     comma separated CORS origins
//	LOG_LEVEL        debug | info | warn | error
//	REQUEST_TIMEOUT  per-request deadline, same syntax
func parseEnv(config *Config, lookup lookupFunc) error {
	if v, ok := lookup("ADDRESS"); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := lookup("GRPC_ADDRESS"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := lookup("DATABASE_DSN"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("STORAGE_TYPE"); ok && v != "" {
		config.StorageType = v
	}
	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookup("FRONTEND_URL"); ok && v != "" {
		config.AllowedOrigins = flagx.SplitList(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}

	if v, ok := lookup("JWT_EXPIRES_IN"); ok && v != "" {
		d, err := timex.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES_IN: %w", err)
		}
		config.AccessTokenValidityDuration = d
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok && v != "" {
		d, err := timex.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		config.RequestTimeout = d
	}
	return nil
}
