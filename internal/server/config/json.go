package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/dmitrijs2005/tasktracker/internal/timex"
	"gopkg.in/yaml.v3"
)

// JsonConfig is the on-disk shape of the configuration file, JSON or YAML
// (by .yaml/.yml extension). Durations use timex.Duration so both "24h" and
// integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC            *string        `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn" yaml:"database_dsn"`
	StorageType                 string         `json:"storage_type" yaml:"storage_type"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	AllowedOrigins              []string       `json:"allowed_origins" yaml:"allowed_origins"`
	LogLevel                    string         `json:"log_level" yaml:"log_level"`
	RequestTimeout              timex.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// parseJson overlays values from the file named by -c / -config. Only keys
// present with a non-zero value replace what is already in config;
// endpoint_addr_grpc may be set to "" explicitly to disable the gRPC server.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(file, c)
	default:
		err = json.Unmarshal(file, c)
	}
	if err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StorageType, c.StorageType)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
