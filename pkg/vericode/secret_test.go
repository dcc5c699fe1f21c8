package vericode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadSecretFromEnv tests that the environment variable wins
func TestLoadSecretFromEnv(t *testing.T) {
	t.Setenv(SecretEnvVar, "env-secret")

	// A config file with a different value must not be consulted.
	path := writeConfig(t, `{"VERICODE_SECRET_KEY": "file-secret"}`)

	secret, err := LoadSecret(path)
	if err != nil {
		t.Fatalf("failed to load secret: %v", err)
	}
	if secret != "env-secret" {
		t.Errorf("expected env secret to take precedence, got %q", secret)
	}
}

// TestLoadSecretFromFile tests the config file fallback
func TestLoadSecretFromFile(t *testing.T) {
	t.Setenv(SecretEnvVar, "")

	path := writeConfig(t, `{"VERICODE_SECRET_KEY": "file-secret"}`)

	secret, err := LoadSecret(path)
	if err != nil {
		t.Fatalf("failed to load secret: %v", err)
	}
	if secret != "file-secret" {
		t.Errorf("expected file secret, got %q", secret)
	}
}

// TestLoadSecretMissing tests that absence of both sources is an error
func TestLoadSecretMissing(t *testing.T) {
	t.Setenv(SecretEnvVar, "")

	tests := []struct {
		name string
		path string
	}{
		{
			name: "file does not exist",
			path: filepath.Join(t.TempDir(), "config.json"),
		},
		{
			name: "file exists without the key",
			path: writeConfig(t, `{"other": "value"}`),
		},
		{
			name: "file exists with empty value",
			path: writeConfig(t, `{"VERICODE_SECRET_KEY": ""}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSecret(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMissingSecret) {
				t.Errorf("expected ErrMissingSecret, got %v", err)
			}
		})
	}
}

// TestGenerateSecret tests random secret generation
func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatalf("failed to generate secret: %v", err)
	}

	if secret == "" {
		t.Fatal("expected non-empty secret")
	}

	// Base32 without padding: uppercase letters and digits 2-7 only.
	for _, c := range secret {
		if !((c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7')) {
			t.Errorf("invalid character in secret: %c", c)
		}
	}

	secret2, err := GenerateSecret()
	if err != nil {
		t.Fatalf("failed to generate second secret: %v", err)
	}
	if secret == secret2 {
		t.Error("generated secrets should be different")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
