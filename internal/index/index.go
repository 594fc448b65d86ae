package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/combust-labs/firebuild/pkg/flock"

	"github.com/chmocker/chmocker/internal/paths"
)

// One row of the index: the tag it was built for and the stage hash that
// produced it.
type Entry struct {
	Tag  string `json:"tag"`
	Hash string `json:"hash"`
}

// A tag -> Entry mapping backed by a single JSON file, held open for the
// lifetime of one build invocation.
//
// Open acquires an exclusive flock on a sibling lock file and blocks until
// it is available; Close releases it. Between Open and Close, Index is not
// safe for concurrent use from multiple goroutines — the core is
// single-threaded by design.
type Index struct {
	path    string
	lock    flock.Lock
	entries map[string]Entry
}

// Opens the index at path, creating an empty one ("{}") if it does not
// exist yet, and acquires the cross-process lock. Callers must call Close
// when done.
func Open(path string) (*Index, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Acquire(); err != nil {
		return nil, fmt.Errorf("%w: acquiring lock for %s: %w", ErrIndex, path, err)
	}

	idx := &Index{path: path, lock: lock}
	if err := idx.reload(); err != nil {
		lock.Release()
		return nil, err
	}
	return idx, nil
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: statting %s: %w", ErrIndex, path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrIndex, filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("{}"), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: initializing %s: %w", ErrIndex, path, err)
	}
	return nil
}

func (idx *Index) reload() error {
	raw, err := os.ReadFile(idx.path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrIndex, idx.path, err)
	}

	if len(raw) == 0 {
		idx.entries = map[string]Entry{}
		return nil
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexCorrupt, err)
	}
	idx.entries = entries
	return nil
}

// Returns the entry for tag, if present.
func (idx *Index) Get(tag string) (Entry, bool) {
	e, ok := idx.entries[tag]
	return e, ok
}

// Sets (or overwrites) the entry for tag and persists the whole index
// immediately, via a write-sibling-then-rename so a crash never truncates
// index.json.
func (idx *Index) Put(tag, hash string) error {
	idx.entries[tag] = Entry{Tag: tag, Hash: hash}
	return idx.persist()
}

func (idx *Index) persist() error {
	raw, err := json.Marshal(idx.entries)
	if err != nil {
		return fmt.Errorf("%w: marshaling: %w", ErrIndex, err)
	}

	tmp := idx.path + ".tmp"
	if err := os.WriteFile(tmp, raw, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIndex, tmp, err)
	}
	if err := os.Rename(tmp, idx.path); err != nil {
		return fmt.Errorf("%w: renaming %s to %s: %w", ErrIndex, tmp, idx.path, err)
	}
	return nil
}

// Releases the cross-process lock. The Index must not be used afterward.
func (idx *Index) Close() error {
	if err := idx.lock.Release(); err != nil {
		return fmt.Errorf("%w: releasing lock for %s: %w", ErrIndex, idx.path, err)
	}
	return nil
}
