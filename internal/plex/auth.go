package plex

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Credentials is one PCN's basic-auth pair for the datasource endpoints.
type Credentials struct {
	Username string
	Password string
}

// DecodeCredentials decodes a base64 "user:password" pair as stored in the
// environment. A pair that does not decode or split is a configuration
// error for that PCN; the caller skips the record and continues the run.
func DecodeCredentials(encoded string) (Credentials, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials are not valid base64: %w", err)
	}
	decoded := strings.TrimSpace(string(raw))
	user, pass, ok := strings.Cut(decoded, ":")
	if !ok {
		return Credentials{}, fmt.Errorf("credentials are not in user:password form")
	}
	return Credentials{Username: user, Password: pass}, nil
}
