package vericode

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// SecretEnvVar is the environment variable the secret is read from first.
	SecretEnvVar = "VERICODE_SECRET_KEY"
	// DefaultConfigFile is the fallback configuration file consulted when the
	// environment variable is unset. It must contain the same key.
	DefaultConfigFile = "config.json"
)

// LoadSecret resolves the shared secret at process start. The environment
// variable takes precedence; otherwise the named key is read from configPath
// (DefaultConfigFile when empty). The file format is inferred from the
// extension. A missing secret is fatal for any process embedding the
// authenticator, so callers should treat the returned error as such.
func LoadSecret(configPath string) (string, error) {
	if s := strings.TrimSpace(os.Getenv(SecretEnvVar)); s != "" {
		return s, nil
	}

	if configPath == "" {
		configPath = DefaultConfigFile
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s not set and %s not found", ErrMissingSecret, SecretEnvVar, configPath)
		}
		return "", fmt.Errorf("%w: reading %s: %v", ErrMissingSecret, configPath, err)
	}

	if s := strings.TrimSpace(v.GetString(SecretEnvVar)); s != "" {
		return s, nil
	}

	return "", fmt.Errorf("%w: %s not set in environment or %s", ErrMissingSecret, SecretEnvVar, configPath)
}

// GenerateSecret generates a cryptographically random shared secret, returned
// as a base32 string without padding suitable for Config.Secret.
func GenerateSecret() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("vericode: failed to generate random secret: %w", err)
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret), nil
}
