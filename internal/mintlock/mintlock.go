// Package mintlock prevents two mintforge processes from minting into the
// same contract at once.
package mintlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds the collection lock.
var ErrLocked = errors.New("another mintforge batch is already minting into this collection")

// Lock is an acquired advisory lock for one chain/contract pair.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock for chainID and contractAddress under dir without
// blocking. It returns ErrLocked when the lock is already held.
func Acquire(dir string, chainID int64, contractAddress string) (*Lock, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("lock directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := filepath.Join(dir, FileName(chainID, contractAddress))
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// FileName returns the lock file name for a chain/contract pair.
func FileName(chainID int64, contractAddress string) string {
	addr := strings.ToLower(strings.TrimSpace(contractAddress))
	addr = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, addr)
	if addr == "" {
		addr = "unknown"
	}
	return fmt.Sprintf("%d-%s.lock", chainID, addr)
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks the file. Calling Release more than once is safe.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
