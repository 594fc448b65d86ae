package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chmocker/chmocker/internal/paths"
)

const (
	imagesDir      = "images"
	imagesMountDir = "images_mount"
	indexFile      = "index.json"
)

// On-disk layout rooted at a single directory:
//
//	<root>/images/<key>.tar       tar artifacts
//	<root>/images_mount/<key>/    unpacked trees
//	<root>/index.json             the Index file
//
// All directory operations are idempotent; New and the path accessors below
// never fail because a directory already exists.
type Store struct {
	root string
}

// Creates (if absent) the store directories under root and returns a Store
// bound to them. root is typically paths.DefaultRoot(), but tests pass a
// tempdir.
func New(root string) (*Store, error) {
	s := &Store{root: root}

	for _, dir := range []string{s.root, s.imagesDirPath(), s.imagesMountDirPath()} {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %w", ErrStore, dir, err)
		}
	}

	return s, nil
}

// Root directory of the store.
func (s *Store) Root() string {
	return s.root
}

// Path to the Index file.
func (s *Store) IndexPath() string {
	return filepath.Join(s.root, indexFile)
}

func (s *Store) imagesDirPath() string {
	return filepath.Join(s.root, imagesDir)
}

func (s *Store) imagesMountDirPath() string {
	return filepath.Join(s.root, imagesMountDir)
}

// Path to the tar artifact for key, whether or not it exists yet.
func (s *Store) TarPath(key string) string {
	return filepath.Join(s.imagesDirPath(), key+".tar")
}

// Path to the unpacked tree for key, whether or not it exists yet.
func (s *Store) MountPath(key string) string {
	return filepath.Join(s.imagesMountDirPath(), key)
}

// True if a tar artifact exists for key.
func (s *Store) ExistsTar(key string) bool {
	return exists(s.TarPath(key))
}

// True if an unpacked tree exists for key.
func (s *Store) ExistsMount(key string) bool {
	return exists(s.MountPath(key))
}

// Sorted base names of every tar artifact in the store, without the .tar
// suffix.
func (s *Store) ListTars() ([]string, error) {
	entries, err := os.ReadDir(s.imagesDirPath())
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrStore, s.imagesDirPath(), err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, strings.TrimSuffix(e.Name(), ".tar"))
	}
	sort.Strings(keys)
	return keys, nil
}

// Sorted names of every unpacked tree in the store.
func (s *Store) ListMounts() ([]string, error) {
	entries, err := os.ReadDir(s.imagesMountDirPath())
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrStore, s.imagesMountDirPath(), err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Removes path, handling a symlink, a regular file, or a directory tree
// uniformly. Callers must check existence first; Remove does not treat a
// missing path as success.
func Remove(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("%w: removing %s: %w", ErrStore, path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		err = os.Remove(path)
	} else if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}

	if err != nil {
		return fmt.Errorf("%w: removing %s: %w", ErrStore, path, err)
	}
	return nil
}
