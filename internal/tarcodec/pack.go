package tarcodec

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Packs the immediate children of sourceDir into a new tar archive at
// tarPath. Each child is added recursively under its own name, so the tar
// root contains the children directly rather than sourceDir itself.
//
// POSIX mode, owner, mtime and symlink targets are preserved via
// tar.FileInfoHeader.
func Pack(sourceDir, tarPath string) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrTarCodec, sourceDir, err)
	}

	f, err := os.Create(tarPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrTarCodec, tarPath, err)
	}
	defer f.Close()

	tw := tar.NewWriter(f)

	for _, entry := range entries {
		childPath := filepath.Join(sourceDir, entry.Name())
		if err := addTree(tw, childPath, entry.Name()); err != nil {
			tw.Close()
			return fmt.Errorf("%w: packing %s: %w", ErrTarCodec, childPath, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("%w: finalizing %s: %w", ErrTarCodec, tarPath, err)
	}
	return nil
}

// Adds hostPath (file, directory, or symlink) to tw under archivePath,
// recursing into directories.
func addTree(tw *tar.Writer, hostPath, archivePath string) error {
	info, err := os.Lstat(hostPath)
	if err != nil {
		return err
	}

	var linkTarget string
	if info.Mode()&os.ModeSymlink != 0 {
		linkTarget, err = os.Readlink(hostPath)
		if err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, linkTarget)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(archivePath)

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return err
		}
		return nil
	}

	if !info.IsDir() {
		return nil
	}

	children, err := os.ReadDir(hostPath)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := addTree(tw, filepath.Join(hostPath, child.Name()), filepath.Join(archivePath, child.Name())); err != nil {
			return err
		}
	}
	return nil
}
