package session

import (
	"os"
	"path/filepath"
	"strings"

	"mih/internal/client/api"
)

// FileCredentialStore keeps the one bearer token in a single file under the
// config dir. Reads go through the cached copy; writes hit disk first.
type FileCredentialStore struct {
	path  string
	token string
}

func NewFileCredentialStore(path string) *FileCredentialStore {
	store := &FileCredentialStore{path: path}
	if raw, err := os.ReadFile(path); err == nil {
		store.token = strings.TrimSpace(string(raw))
	}
	return store
}

var _ api.CredentialStore = (*FileCredentialStore)(nil)

func (s *FileCredentialStore) Token() string { return s.token }

func (s *FileCredentialStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return err
	}
	s.token = token
	return nil
}

func (s *FileCredentialStore) Clear() error {
	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
