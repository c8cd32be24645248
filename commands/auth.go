package commands

import (
	"fmt"
	"net/http"

	"golang.org/x/net/context"
	"golang.org/x/oauth2/google"
)

// authorize returns an HTTP client authorised with the service account key for the scope.
// The spreadsheet must be shared with the service account's client email.
func authorize(ctx context.Context, serviceAccount []byte, scope string) (*http.Client, error) {
	config, err := google.JWTConfigFromJSON(serviceAccount, scope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials (%w)", err)
	}

	return config.Client(ctx), nil
}
