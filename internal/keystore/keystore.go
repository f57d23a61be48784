package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists pairing credentials to disk, one file per device
// address. It is a minimal implementation and does not encrypt the
// contents.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created lazily on
// first write.
func New(dir string) *Store { return &Store{dir: dir} }

// Load reads the credential for addr. The second return is false when no
// credential has been persisted for that address.
func (s *Store) Load(addr string) (string, bool, error) {
	data, err := os.ReadFile(s.path(addr))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read client key: %w", err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Save writes the credential for addr, creating the key directory on
// demand.
func (s *Store) Save(addr, key string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(s.path(addr), []byte(key), 0o600); err != nil {
		return fmt.Errorf("write client key: %w", err)
	}
	return nil
}

func (s *Store) path(addr string) string {
	return filepath.Join(s.dir, addr)
}
