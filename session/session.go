// Package session holds the credentials of the signed-in user and keeps them
// in durable storage between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yhkl-dev/navisonic/storage"
	"github.com/yhkl-dev/navisonic/subsonic"
)

// Persisted keys.
const (
	KeyServer   = "server"
	KeyUsername = "username"
	KeySalt     = "salt"
	KeyHash     = "hash"
)

// Pinger validates credentials against the server. *subsonic.Client implements it.
type Pinger interface {
	Ping(ctx context.Context, creds subsonic.Credentials) error
}

// AuthenticationError is a failed ping during login.
type AuthenticationError struct {
	Status  string
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed: " + e.Status
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Store is the credential store. It is a subsonic.CredentialProvider.
type Store struct {
	mu            sync.RWMutex
	kv            storage.Store
	pinger        Pinger
	creds         subsonic.Credentials
	authenticated bool
	pinnedServer  string
}

var _ subsonic.CredentialProvider = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPinnedServer fixes the server URL, overriding any persisted one.
func WithPinnedServer(url string) Option {
	return func(s *Store) {
		s.pinnedServer = url
	}
}

// New restores persisted credentials from kv. Missing keys are empty.
func New(kv storage.Store, pinger Pinger, opts ...Option) (*Store, error) {
	s := &Store{kv: kv, pinger: pinger}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) restore() error {
	fields := []struct {
		key string
		dst *string
	}{
		{KeyServer, &s.creds.Server},
		{KeyUsername, &s.creds.Username},
		{KeySalt, &s.creds.Salt},
		{KeyHash, &s.creds.Hash},
	}
	for _, f := range fields {
		v, err := s.kv.Get(f.key)
		if err != nil {
			return fmt.Errorf("restore %s: %w", f.key, err)
		}
		*f.dst = v
	}
	if s.pinnedServer != "" {
		s.creds.Server = s.pinnedServer
	}
	return nil
}

// Credentials returns the current credentials.
func (s *Store) Credentials() subsonic.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// AutoLogin verifies the restored credentials without persisting them again.
// It never fails: any error is reported as false.
func (s *Store) AutoLogin(ctx context.Context) bool {
	creds := s.Credentials()
	if creds.Server == "" || creds.Username == "" {
		return false
	}
	if err := s.Verify(ctx, creds, false); err != nil {
		log.Debug().Err(err).Str("server", creds.Server).Msg("Auto login failed")
		return false
	}
	return true
}

// LoginWithPassword uses the password itself as the token under a fresh salt.
func (s *Store) LoginWithPassword(ctx context.Context, server, username, password string, remember bool) error {
	return s.Verify(ctx, subsonic.Credentials{
		Server:   server,
		Username: username,
		Salt:     subsonic.NewSalt(),
		Hash:     password,
	}, remember)
}

// Verify pings the server with creds. On success creds are persisted when
// remember is set and then become current. Any failure, including a failed
// write, leaves the store as it was.
func (s *Store) Verify(ctx context.Context, creds subsonic.Credentials, remember bool) error {
	if err := s.pinger.Ping(ctx, creds); err != nil {
		var perr *subsonic.ProtocolError
		if errors.As(err, &perr) {
			return &AuthenticationError{Status: perr.Status, Message: perr.Message, Err: err}
		}
		return err
	}

	if remember {
		if err := s.persist(creds); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.creds = creds
	s.authenticated = true
	s.mu.Unlock()

	log.Info().Str("server", creds.Server).Str("username", creds.Username).Bool("remember", remember).Msg("Logged in")
	return nil
}

func (s *Store) persist(creds subsonic.Credentials) error {
	err := s.kv.SetMany([]storage.Entry{
		{Key: KeyServer, Value: creds.Server},
		{Key: KeyUsername, Value: creds.Username},
		{Key: KeySalt, Value: creds.Salt},
		{Key: KeyHash, Value: creds.Hash},
	})
	if err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	return nil
}

// Logout clears all persisted state and forgets the current credentials.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.creds = subsonic.Credentials{Server: s.pinnedServer}
	s.authenticated = false
	s.mu.Unlock()

	if err := s.kv.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	log.Info().Msg("Logged out")
	return nil
}
