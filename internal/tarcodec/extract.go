package tarcodec

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extracts members of the tar archive at tarPath into destDir. If
// prefixFilter is non-empty, only members whose name starts with it are
// extracted; if it selects nothing, Extract fails with ErrEmptyFilter.
//
// Member names are validated against path traversal: a name containing a
// ".." segment or an absolute path fails the whole extraction with
// ErrUnsafe, mirroring the guard the original's unfiltered
// tarfile.extractall lacked.
func Extract(tarPath, destDir, prefixFilter string) error {
	f, err := os.Open(tarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, tarPath)
		}
		return fmt.Errorf("%w: opening %s: %w", ErrTarCodec, tarPath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrTarCodec, destDir, err)
	}

	tr := tar.NewReader(f)
	matched := false

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: reading %s: %w", ErrTarCodec, tarPath, err)
		}

		if prefixFilter != "" && !strings.HasPrefix(header.Name, prefixFilter) {
			continue
		}

		if err := validateMemberName(header.Name); err != nil {
			return err
		}

		matched = true
		if err := extractEntry(tr, header, destDir); err != nil {
			return fmt.Errorf("%w: extracting %s: %w", ErrTarCodec, header.Name, err)
		}
	}

	if prefixFilter != "" && !matched {
		return fmt.Errorf("%w: %q in %s", ErrEmptyFilter, prefixFilter, tarPath)
	}
	return nil
}

func validateMemberName(name string) error {
	if filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q is absolute", ErrUnsafe, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q escapes the destination", ErrUnsafe, name)
		}
	}
	return nil
}

func extractEntry(tr *tar.Reader, header *tar.Header, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(header.Name))

	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
			return err
		}
	case tar.TypeSymlink:
		os.Remove(target)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.Symlink(header.Linkname, target); err != nil {
			return err
		}
		return nil
	case tar.TypeLink:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.Link(filepath.Join(destDir, filepath.FromSlash(header.Linkname)), target); err != nil {
			return err
		}
	default:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(header.Mode))
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	}

	return os.Chtimes(target, header.ModTime, header.ModTime)
}
