package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// ErrCorruptState is returned by Load when the state file exists but cannot
// be parsed. Callers back the file up and start empty; they never crash on
// it.
var ErrCorruptState = errors.New("state file is corrupt")

// ErrLockTimeout is returned when the store lock cannot be acquired within
// the configured deadline.
var ErrLockTimeout = errors.New("timed out waiting for state lock")

const (
	stateFileName = "windows.json"
	lockFileName  = "windows.lock"

	lockRetryInterval = 25 * time.Millisecond
)

// Store persists the minimized set as a single JSON file guarded by a
// sidecar flock. The flock is the only concurrency mechanism in the system:
// concurrent minhypr invocations serialize on it, and a crashed holder's
// lock is released by the kernel, so stale locks self-heal.
type Store struct {
	dir         string
	lockTimeout time.Duration
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &Store{dir: dir, lockTimeout: lockTimeout}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, lockFileName)
}

// Load reads the persisted set. A missing file yields an empty set. A file
// that cannot be parsed, or whose version is newer than this binary
// understands, yields ErrCorruptState.
func (s *Store) Load() (*Set, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if set.Version > Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptState, set.Version)
	}
	if set.Version == 0 {
		set.Version = Version
	}
	if set.NextID == 0 {
		// Older files carried no counter; resume above the highest id.
		var max uint64
		for _, w := range set.Windows {
			if w.ID > max {
				max = w.ID
			}
		}
		set.NextID = max + 1
	}
	return &set, nil
}

// Save writes the set atomically: the JSON is written to a temporary file
// in the same directory and renamed over the state file, so a crash
// mid-write never leaves a half-written store.
func (s *Store) Save(set *Set) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, stateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush state: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

// Tx is a locked view of the set. Mutating operations run their whole
// load-mutate-side-effect-save cycle inside one Tx.
type Tx struct {
	// Set is the working copy; it is persisted when the WithLock function
	// returns nil, or earlier via Save checkpoints.
	Set *Set

	store *Store
}

// Save checkpoints the current set to disk without releasing the lock.
// restore-all uses it so every individually restored window is persisted
// even if a later entry fails.
func (tx *Tx) Save() error {
	return tx.store.Save(tx.Set)
}

// WithLock acquires the store's exclusive lock, loads the set, runs fn and
// persists the set when fn returns nil. The lock is released on every exit
// path. A corrupt state file is backed up and the transaction starts from
// an empty set.
func (s *Store) WithLock(fn func(tx *Tx) error) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := s.acquire(lockFile); err != nil {
		return err
	}
	defer unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)

	set, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrCorruptState) {
			return err
		}
		if backupErr := s.backupCorrupt(); backupErr != nil {
			return fmt.Errorf("failed to back up corrupt state: %w", backupErr)
		}
		set = NewSet()
	}

	tx := &Tx{Set: set, store: s}
	if err := fn(tx); err != nil {
		return err
	}
	return s.Save(tx.Set)
}

func (s *Store) acquire(lockFile *os.File) error {
	deadline := time.Now().Add(s.lockTimeout)
	for {
		err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if err != unix.EWOULDBLOCK && err != unix.EAGAIN {
			return fmt.Errorf("flock failed: %w", err)
		}
		if time.Now().After(deadline) {
			return ErrLockTimeout
		}
		time.Sleep(lockRetryInterval)
	}
}

// backupCorrupt moves the unparsable state file aside so it can be
// inspected, logging where it went.
func (s *Store) backupCorrupt() error {
	backup := fmt.Sprintf("%s.corrupt-%d", s.Path(), time.Now().Unix())
	if err := os.Rename(s.Path(), backup); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	log.Printf("Warning: state file was corrupt, backed up to %s", backup)
	return nil
}
