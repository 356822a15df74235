package subsonic

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := StaticCredentials{Server: server.URL, Username: "u", Salt: "s1", Hash: "h1"}
	return NewClient(WithHTTPClient(server.Client())).WithCredentials(creds), server
}

func TestCallDecodesPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/getGenres", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "u", q.Get("u"))
		assert.Equal(t, "s1", q.Get("s"))
		assert.Equal(t, "h1", q.Get("p"))
		assert.Equal(t, "json", q.Get("f"))
		w.Write([]byte(`{"subsonic-response":{"status":"ok","version":"1.16.1","genres":{"genre":[
			{"value":"Rock","albumCount":3,"songCount":30}
		]}}}`))
	})

	genres, err := c.GetGenres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Rock", genres[0].Value)
	assert.Equal(t, 3, *genres[0].AlbumCount)
}

func TestCallFailedStatusUsesServerMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"subsonic-response":{"status":"failed","error":{"message":"Wrong username or password"}}}`))
	})

	err := c.Call(context.Background(), "getGenres", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "Wrong username or password", err.Error())

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "failed", perr.Status)
}

func TestCallFailedStatusWithoutMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"subsonic-response":{"status":"failed"}}`))
	})

	err := c.Call(context.Background(), "ping", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "failed", err.Error())
}

func TestCallMissingEnvelope(t *testing.T) {
	bodies := map[string]string{
		"no wrapper":   `{"status":"ok"}`,
		"null wrapper": `{"subsonic-response":null}`,
		"not json":     `<html>502 Bad Gateway</html>`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			err := c.Call(context.Background(), "ping", nil, nil)
			var perr *ProtocolError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, StatusMalformed, perr.Status)
		})
	}
}

func TestCallTransportErrorIsUnmodified(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	c := NewClient().WithCredentials(StaticCredentials{Server: "http://" + addr})
	err = c.Call(context.Background(), "ping", nil, nil)
	require.Error(t, err)

	var uerr *url.Error
	assert.ErrorAs(t, err, &uerr)
	var perr *ProtocolError
	assert.False(t, errors.As(err, &perr))
}

func TestPingUsesExplicitCredentials(t *testing.T) {
	var gotUser string
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.URL.Query().Get("u")
		w.Write([]byte(`{"subsonic-response":{"status":"ok"}}`))
	})

	err := c.Ping(context.Background(), Credentials{Server: server.URL, Username: "other"})
	require.NoError(t, err)
	assert.Equal(t, "other", gotUser)
}

func TestUpdatePlaylistRepeatsParams(t *testing.T) {
	var got url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"subsonic-response":{"status":"ok"}}`))
	})

	err := c.UpdatePlaylist(context.Background(), "p1", url.Values{"songIdToAdd": {"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "p1", got.Get("playlistId"))
	assert.Equal(t, []string{"a", "b"}, got["songIdToAdd"])
}
