package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhkl-dev/navisonic/storage"
	"github.com/yhkl-dev/navisonic/subsonic"
)

// Mock pinger for testing
type mockPinger struct {
	mu    sync.Mutex
	err   error
	calls []subsonic.Credentials
}

func (m *mockPinger) Ping(ctx context.Context, creds subsonic.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, creds)
	return m.err
}

func (m *mockPinger) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

var validCreds = subsonic.Credentials{
	Server:   "https://music.example",
	Username: "alice",
	Salt:     "salt",
	Hash:     "secret",
}

func seeded(t *testing.T, creds subsonic.Credentials) *storage.Memory {
	t.Helper()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(KeyServer, creds.Server))
	require.NoError(t, kv.Set(KeyUsername, creds.Username))
	require.NoError(t, kv.Set(KeySalt, creds.Salt))
	require.NoError(t, kv.Set(KeyHash, creds.Hash))
	return kv
}

func TestNewRestoresPersistedCredentials(t *testing.T) {
	s, err := New(seeded(t, validCreds), &mockPinger{})
	require.NoError(t, err)

	assert.Equal(t, validCreds, s.Credentials())
	assert.False(t, s.IsAuthenticated())
}

func TestNewDefaultsToEmpty(t *testing.T) {
	s, err := New(storage.NewMemory(), &mockPinger{})
	require.NoError(t, err)
	assert.Equal(t, subsonic.Credentials{}, s.Credentials())
}

func TestPinnedServerOverridesPersisted(t *testing.T) {
	s, err := New(seeded(t, validCreds), &mockPinger{}, WithPinnedServer("https://pinned.example"))
	require.NoError(t, err)

	creds := s.Credentials()
	assert.Equal(t, "https://pinned.example", creds.Server)
	assert.Equal(t, "alice", creds.Username)
}

func TestAutoLoginWithoutCredentialsSkipsNetwork(t *testing.T) {
	pinger := &mockPinger{}
	s, err := New(storage.NewMemory(), pinger)
	require.NoError(t, err)

	assert.False(t, s.AutoLogin(context.Background()))
	assert.Zero(t, pinger.callCount())
}

func TestAutoLoginSuccess(t *testing.T) {
	pinger := &mockPinger{}
	s, err := New(seeded(t, validCreds), pinger)
	require.NoError(t, err)

	assert.True(t, s.AutoLogin(context.Background()))
	assert.True(t, s.IsAuthenticated())
	require.Equal(t, 1, pinger.callCount())
	assert.Equal(t, validCreds, pinger.calls[0])
}

func TestAutoLoginSwallowsFailures(t *testing.T) {
	for name, pingErr := range map[string]error{
		"protocol":  &subsonic.ProtocolError{Status: "failed", Code: 40, Message: "Wrong username or password"},
		"transport": errors.New("connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			s, err := New(seeded(t, validCreds), &mockPinger{err: pingErr})
			require.NoError(t, err)

			assert.False(t, s.AutoLogin(context.Background()))
			assert.False(t, s.IsAuthenticated())
		})
	}
}

func TestVerifyFailureLeavesStateUntouched(t *testing.T) {
	kv := storage.NewMemory()
	pinger := &mockPinger{}
	s, err := New(kv, pinger)
	require.NoError(t, err)
	require.NoError(t, s.Verify(context.Background(), validCreds, false))

	pinger.err = &subsonic.ProtocolError{Status: "failed", Message: "Wrong username or password"}
	other := subsonic.Credentials{Server: "https://other.example", Username: "bob", Hash: "x"}
	err = s.Verify(context.Background(), other, true)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "failed", authErr.Status)
	assert.Equal(t, "Wrong username or password", err.Error())

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, validCreds, s.Credentials())
	assert.Zero(t, kv.Len())
}

func TestVerifyTransportErrorPassesThrough(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")
	s, err := New(storage.NewMemory(), &mockPinger{err: netErr})
	require.NoError(t, err)

	err = s.Verify(context.Background(), validCreds, false)
	assert.Same(t, netErr, err)
	assert.False(t, s.IsAuthenticated())
}

func TestVerifyRememberPersists(t *testing.T) {
	kv := storage.NewMemory()
	s, err := New(kv, &mockPinger{})
	require.NoError(t, err)

	require.NoError(t, s.Verify(context.Background(), validCreds, true))

	for key, want := range map[string]string{
		KeyServer:   validCreds.Server,
		KeyUsername: validCreds.Username,
		KeySalt:     validCreds.Salt,
		KeyHash:     validCreds.Hash,
	} {
		got, err := kv.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}
}

func TestVerifyWithoutRememberDoesNotPersist(t *testing.T) {
	kv := storage.NewMemory()
	s, err := New(kv, &mockPinger{})
	require.NoError(t, err)

	require.NoError(t, s.Verify(context.Background(), validCreds, false))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, validCreds, s.Credentials())
	assert.Zero(t, kv.Len())
}

func TestLoginWithPasswordUsesPasswordAsToken(t *testing.T) {
	pinger := &mockPinger{}
	s, err := New(storage.NewMemory(), pinger)
	require.NoError(t, err)

	err = s.LoginWithPassword(context.Background(), "https://music.example", "alice", "hunter2", false)
	require.NoError(t, err)

	require.Equal(t, 1, pinger.callCount())
	sent := pinger.calls[0]
	assert.Equal(t, "hunter2", sent.Hash)
	assert.NotEmpty(t, sent.Salt)
	assert.Equal(t, sent, s.Credentials())
}

func TestLogoutClearsEverything(t *testing.T) {
	kv := seeded(t, validCreds)
	require.NoError(t, kv.Set("unrelated", "value"))

	s, err := New(kv, &mockPinger{}, WithPinnedServer("https://pinned.example"))
	require.NoError(t, err)
	require.True(t, s.AutoLogin(context.Background()))

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated())
	assert.Zero(t, kv.Len())
	assert.Equal(t, subsonic.Credentials{Server: "https://pinned.example"}, s.Credentials())
}

type failingStore struct {
	storage.Memory
}

func (f *failingStore) Get(string) (string, error) {
	return "", storage.ErrClosed
}

func TestNewPropagatesStorageErrors(t *testing.T) {
	_, err := New(&failingStore{}, &mockPinger{})
	assert.ErrorIs(t, err, storage.ErrClosed)
}

type diskFullStore struct {
	*storage.Memory
}

func (d diskFullStore) SetMany([]storage.Entry) error {
	return errors.New("disk full")
}

func TestVerifyPersistFailureKeepsPreviousState(t *testing.T) {
	old := subsonic.Credentials{Server: "https://old.example", Username: "bob", Salt: "s0", Hash: "h0"}
	kv := seeded(t, old)
	s, err := New(diskFullStore{kv}, &mockPinger{})
	require.NoError(t, err)

	err = s.Verify(context.Background(), validCreds, true)
	require.ErrorContains(t, err, "disk full")

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, old, s.Credentials())

	restored, err := New(kv, &mockPinger{})
	require.NoError(t, err)
	assert.Equal(t, old, restored.Credentials())
}
