package models

import (
	"slices"
	"testing"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv(PortEnvVar, "")
	t.Setenv(AllowedOriginsEnvVar, "")
	t.Setenv(MaxUploadEnvVar, "")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if !slices.Equal(cfg.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadServerConfigFromEnv(t *testing.T) {
	t.Setenv(PortEnvVar, "9090")
	t.Setenv(AllowedOriginsEnvVar, "https://a.example, https://b.example ,")
	t.Setenv(MaxUploadEnvVar, "64")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !slices.Equal(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.MaxUploadBytes != 64<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadServerConfigRejectsBadValues(t *testing.T) {
	t.Setenv(MaxUploadEnvVar, "lots")
	if _, err := LoadServerConfig(); err == nil {
		t.Error("non-numeric upload limit accepted")
	}

	t.Setenv(MaxUploadEnvVar, "")
	t.Setenv(AllowedOriginsEnvVar, " , ")
	if _, err := LoadServerConfig(); err == nil {
		t.Error("empty origin list accepted")
	}
}
