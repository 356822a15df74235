// Package subsonic speaks the Subsonic REST protocol: request signing,
// envelope decoding and the raw records servers send back.
package subsonic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// EnvelopeKey is the single top-level key of every response body.
const EnvelopeKey = "subsonic-response"

// Client issues signed requests. It holds no session state of its own: the
// credentials come from a CredentialProvider at request time.
type Client struct {
	clientID   string
	apiVersion string
	httpClient *http.Client
	creds      CredentialProvider
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClientID sets the "c" parameter.
func WithClientID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.clientID = id
		}
	}
}

// WithAPIVersion sets the "v" parameter.
func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

// NewClient creates a client with no credentials bound. Use WithCredentials
// before calling endpoint methods; Ping takes its credentials explicitly.
func NewClient(opts ...Option) *Client {
	c := &Client{
		clientID:   DefaultClientID,
		apiVersion: DefaultAPIVersion,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCredentials returns a copy of c that signs requests with p.
func (c *Client) WithCredentials(p CredentialProvider) *Client {
	cp := *c
	cp.creds = p
	return &cp
}

// Credentials returns the credentials currently bound to c.
func (c *Client) Credentials() Credentials {
	if c.creds == nil {
		return Credentials{}
	}
	return c.creds.Credentials()
}

// Call performs endpoint with the bound credentials and decodes the envelope
// body into out (which may be nil).
func (c *Client) Call(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.call(ctx, c.Credentials(), endpoint, params, out)
}

// Ping checks creds against the server without touching the bound credentials.
func (c *Client) Ping(ctx context.Context, creds Credentials) error {
	return c.call(ctx, creds, "ping", nil, nil)
}

func (c *Client) call(ctx context.Context, creds Credentials, endpoint string, params url.Values, out any) error {
	req, err := BuildRequest(ctx, creds, c.clientID, c.apiVersion, endpoint, params)
	if err != nil {
		return err
	}

	log.Debug().Str("endpoint", endpoint).Str("server", creds.Server).Msg("Subsonic request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := decodeEnvelope(body, resp.StatusCode, out); err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Int("http_status", resp.StatusCode).Msg("Subsonic request failed")
		return err
	}
	return nil
}

// decodeEnvelope validates the wrapper and decodes its contents into out.
func decodeEnvelope(body []byte, httpStatus int, out any) error {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return malformed(httpStatus, fmt.Errorf("parse response: %w", err))
	}
	inner, ok := env[EnvelopeKey]
	if !ok || len(bytes.TrimSpace(inner)) == 0 || string(bytes.TrimSpace(inner)) == "null" {
		return malformed(httpStatus, fmt.Errorf("missing %q wrapper", EnvelopeKey))
	}

	var head Response
	if err := json.Unmarshal(inner, &head); err != nil {
		return malformed(httpStatus, fmt.Errorf("parse envelope: %w", err))
	}
	if head.Status != StatusOK {
		perr := &ProtocolError{Status: head.Status, HTTPStatus: httpStatus}
		if head.Error != nil {
			perr.Code = head.Error.Code
			perr.Message = head.Error.Message
		}
		return perr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(inner, out); err != nil {
		return malformed(httpStatus, fmt.Errorf("parse payload: %w", err))
	}
	return nil
}

func malformed(httpStatus int, err error) error {
	return &ProtocolError{
		Status:     StatusMalformed,
		Message:    "invalid subsonic response: " + err.Error(),
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
