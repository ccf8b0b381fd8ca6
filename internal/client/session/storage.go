package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// ErrNoSession indicates the requested scope has nothing persisted.
var ErrNoSession = errors.New("no persisted session")

// PersistedSession is the on-disk shape of one scope's credential.
type PersistedSession struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Storage persists one session per scope across restarts.
type Storage interface {
	Load(scope domain.Scope) (PersistedSession, error)
	Save(scope domain.Scope, s PersistedSession) error
	Clear(scope domain.Scope) error
}

type stateFile struct {
	User  *PersistedSession `json:"user,omitempty"`
	Admin *PersistedSession `json:"admin,omitempty"`
}

// FileStorage keeps both scopes in a single JSON file. A state file that
// fails to parse is treated as absent and wiped on the next write.
type FileStorage struct {
	path string
}

// NewFileStorage builds a FileStorage rooted at path.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, errors.New("session: storage path is required")
	}
	return &FileStorage{path: path}, nil
}

// Load reads the persisted session for one scope.
func (f *FileStorage) Load(scope domain.Scope) (PersistedSession, error) {
	state, err := f.read()
	if err != nil {
		return PersistedSession{}, err
	}

	entry := state.entry(scope)
	if entry == nil || entry.Token == "" || entry.User == nil {
		return PersistedSession{}, ErrNoSession
	}
	return *entry, nil
}

// Save writes the session for one scope, preserving the other.
func (f *FileStorage) Save(scope domain.Scope, s PersistedSession) error {
	state, err := f.read()
	if err != nil {
		return err
	}
	state.setEntry(scope, &s)
	return f.write(state)
}

// Clear drops the persisted session for one scope.
func (f *FileStorage) Clear(scope domain.Scope) error {
	state, err := f.read()
	if err != nil {
		return err
	}
	state.setEntry(scope, nil)
	if state.User == nil && state.Admin == nil {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}
	return f.write(state)
}

func (f *FileStorage) read() (stateFile, error) {
	var state stateFile

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return state, fmt.Errorf("read session file: %w", err)
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		// Corrupt state is unrecoverable; start over.
		return stateFile{}, nil
	}
	return state, nil
}

func (f *FileStorage) write(state stateFile) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *stateFile) entry(scope domain.Scope) *PersistedSession {
	if scope == domain.ScopeAdmin {
		return s.Admin
	}
	return s.User
}

func (s *stateFile) setEntry(scope domain.Scope, e *PersistedSession) {
	if scope == domain.ScopeAdmin {
		s.Admin = e
		return
	}
	s.User = e
}
