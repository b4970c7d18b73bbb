package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSession is returned when no session has been stored yet.
var ErrNoSession = errors.New("cli: no stored session")

// StoredSession is the on-disk form of a login.
type StoredSession struct {
	Token      string    `json:"token"`
	EmployeeID string    `json:"employeeId"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// SessionFile persists the session token between invocations.
type SessionFile struct {
	path string
}

// NewSessionFile returns a SessionFile stored at path.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Path returns the file location.
func (f *SessionFile) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Save writes the session readable by the owner only.
func (f *SessionFile) Save(session StoredSession) error {
	if f == nil || strings.TrimSpace(f.path) == "" {
		return fmt.Errorf("cli: session file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("cli: create session dir: %w", err)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("cli: encode session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("cli: write session: %w", err)
	}
	return nil
}

// Load returns the stored session or ErrNoSession.
func (f *SessionFile) Load() (StoredSession, error) {
	if f == nil || strings.TrimSpace(f.path) == "" {
		return StoredSession{}, ErrNoSession
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return StoredSession{}, ErrNoSession
	}
	if err != nil {
		return StoredSession{}, fmt.Errorf("cli: read session: %w", err)
	}
	var session StoredSession
	if err := json.Unmarshal(data, &session); err != nil || strings.TrimSpace(session.Token) == "" {
		return StoredSession{}, ErrNoSession
	}
	return session, nil
}

// Clear removes the stored session. A missing file is not an error.
func (f *SessionFile) Clear() error {
	if f == nil || strings.TrimSpace(f.path) == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cli: remove session: %w", err)
	}
	return nil
}
