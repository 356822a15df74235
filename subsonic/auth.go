package subsonic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	// PathPrefix is prepended to every endpoint name.
	PathPrefix = "/rest/"

	// ResponseFormat is the only format this client decodes.
	ResponseFormat = "json"

	DefaultClientID   = "navisonic"
	DefaultAPIVersion = "1.16.1"

	saltLength = 12
)

// Credentials is the session material injected into every request.
// Hash is sent verbatim as the "p" parameter.
type Credentials struct {
	Server   string
	Username string
	Salt     string
	Hash     string
}

// CredentialProvider supplies the credentials current at the time of a request.
type CredentialProvider interface {
	Credentials() Credentials
}

// StaticCredentials is a CredentialProvider that never changes.
type StaticCredentials Credentials

func (s StaticCredentials) Credentials() Credentials {
	return Credentials(s)
}

// NewSalt returns a random per-session salt.
func NewSalt() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:saltLength]
}

// AuthQuery renders the authentication parameters in their fixed wire order:
// u, s, p, c, f, v.
func AuthQuery(creds Credentials, clientID, version string) string {
	var b strings.Builder
	pairs := [][2]string{
		{"u", creds.Username},
		{"s", creds.Salt},
		{"p", creds.Hash},
		{"c", clientID},
		{"f", ResponseFormat},
		{"v", version},
	}
	for i, kv := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

// BuildURL returns the absolute URL for endpoint on creds.Server. Operation
// parameters come first (sorted by key), followed by the authentication query.
func BuildURL(creds Credentials, clientID, version, endpoint string, params url.Values) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(creds.Server, "/"))
	b.WriteString(PathPrefix)
	b.WriteString(endpoint)
	b.WriteByte('?')
	if len(params) > 0 {
		b.WriteString(params.Encode())
		b.WriteByte('&')
	}
	b.WriteString(AuthQuery(creds, clientID, version))
	return b.String()
}

// BuildRequest creates a signed GET request for endpoint. Every call made by
// Client goes through here.
func BuildRequest(ctx context.Context, creds Credentials, clientID, version, endpoint string, params url.Values) (*http.Request, error) {
	if creds.Server == "" {
		return nil, ErrNoServer
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildURL(creds, clientID, version, endpoint, params), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
