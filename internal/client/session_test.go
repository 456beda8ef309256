package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewSessionStore(path)

	session := &Session{
		ServerURL: "http://localhost:8080",
		Token:     "some.jwt.token",
		User:      User{ID: 1, Name: "Alice", Email: "alice@x.com", Role: "user"},
	}
	require.NoError(t, store.Save(session))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, session.Token, loaded.Token)
	assert.Equal(t, session.ServerURL, loaded.ServerURL)
	assert.Equal(t, session.User.Email, loaded.User.Email)
}

func TestSessionStoreLoadMissing(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "absent.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	require.NoError(t, store.Save(&Session{Token: "tok"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// Clearing twice is fine
	assert.NoError(t, store.Clear())
}
