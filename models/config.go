package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by the CLI and the API server.
const (
	PortEnvVar           = "PORT"
	PasswordEnvVar       = "STEG_PASSWORD"
	AllowedOriginsEnvVar = "STEG_ALLOWED_ORIGINS"
	MaxUploadEnvVar      = "STEG_MAX_UPLOAD_MB"
	LogLevelEnvVar       = "STEG_LOG_LEVEL"
)

// ServerConfig holds settings for the HTTP API
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	MaxUploadBytes int64
}

// LoadServerConfig reads ServerConfig from the environment, falling back to defaults.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:           "8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxUploadBytes: 32 << 20,
	}

	if port := os.Getenv(PortEnvVar); port != "" {
		cfg.Port = port
	}

	if origins := os.Getenv(AllowedOriginsEnvVar); origins != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
		if len(cfg.AllowedOrigins) == 0 {
			return nil, fmt.Errorf("%s contains no origins", AllowedOriginsEnvVar)
		}
	}

	if mb := os.Getenv(MaxUploadEnvVar); mb != "" {
		n, err := strconv.ParseInt(mb, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s value %q", MaxUploadEnvVar, mb)
		}
		cfg.MaxUploadBytes = n << 20
	}

	return cfg, nil
}
