package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	errSecretsNotFound = errors.New("secrets not found")
	errSecretsInvalid  = errors.New("invalid secrets")
)

// Secrets is the credentials blob, e.g.
//
//	{
//	  "van_api": { "APPLICATION_NAME": "...", "API_KEY": "..." },
//	  "google_service_account": { "type": "service_account", ... }
//	}
type Secrets struct {
	VAN struct {
		ApplicationName string `json:"APPLICATION_NAME"`
		APIKey          string `json:"API_KEY"`
	} `json:"van_api"`
	GoogleServiceAccount json.RawMessage `json:"google_service_account"`
}

// LoadSecrets reads the secrets from a file if one is given, otherwise from the named
// environment variable.
func LoadSecrets(variable string, file string) (*Secrets, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errSecretsNotFound, err)
		}

		return ParseSecrets(b)
	}

	blob, ok := os.LookupEnv(variable)
	if !ok || strings.TrimSpace(blob) == "" {
		return nil, fmt.Errorf("%w: environment variable %s is not set", errSecretsNotFound, variable)
	}

	return ParseSecrets([]byte(blob))
}

// ParseSecrets accepts JSON or HuJSON (comments, trailing commas).
func ParseSecrets(b []byte) (*Secrets, error) {
	standardized, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errSecretsInvalid, err)
	}

	var s Secrets
	if err := json.Unmarshal(standardized, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", errSecretsInvalid, err)
	}

	switch {
	case s.VAN.ApplicationName == "":
		return nil, fmt.Errorf("%w: missing van_api.APPLICATION_NAME", errSecretsInvalid)

	case s.VAN.APIKey == "":
		return nil, fmt.Errorf("%w: missing van_api.API_KEY", errSecretsInvalid)

	case len(s.GoogleServiceAccount) == 0 || string(s.GoogleServiceAccount) == "null":
		return nil, fmt.Errorf("%w: missing google_service_account", errSecretsInvalid)
	}

	return &s, nil
}
