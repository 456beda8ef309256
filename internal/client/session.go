package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Session is the client-side persisted state: which server we talk to, the
// bearer token, and the projection of the logged-in user. The token is stored
// as a plain string; expiry is enforced server-side.
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	User      User   `json:"user"`
}

// ErrNoSession is returned by Load when no session file exists.
var ErrNoSession = errors.New("not logged in")

// SessionStore reads and writes the session file.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store over the given file path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath places the session file under the user config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "userbase", "session.json"), nil
}

// Load reads the persisted session. Returns ErrNoSession if none exists.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, ErrNoSession
	}
	return &session, nil
}

// Save persists the session, creating parent directories as needed.
// The file is user-readable only since it holds the bearer token.
func (s *SessionStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
