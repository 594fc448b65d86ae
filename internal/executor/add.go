package executor

import (
	"archive/tar"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"

	"github.com/chmocker/chmocker/internal/paths"
	"github.com/chmocker/chmocker/internal/tarcodec"
)

// Handles "ADD <src> <dst>". dst is always created as a directory under
// the session's mount root before src is materialized into it.
func execAdd(deps Deps, value string) error {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return fmt.Errorf("%w: ADD expects \"src dst\", got %q", ErrExecutor, value)
	}
	src, dst := fields[0], fields[1]

	destDir := filepath.Join(deps.Session.MountRoot(), strings.TrimPrefix(dst, "/"))
	if err := os.MkdirAll(destDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrExecutor, destDir, err)
	}

	if name, ok := urlBasename(src); ok {
		return downloadTo(src, filepath.Join(destDir, name))
	}

	return addHostPath(src, destDir)
}

// Downloads src via HTTP/HTTPS/FTP into target.
func downloadTo(src, target string) error {
	client := &getter.Client{
		Src:  src,
		Dst:  target,
		Pwd:  filepath.Dir(target),
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("%w: downloading %s: %w", ErrExecutor, src, err)
	}
	return nil
}

// Returns the basename ADD should write a downloaded file to, and whether
// src parses as a URL at all. A trailing slash is stripped before taking the
// path's basename; a URL with no path beyond "/" falls back to the URL's
// host, so ADD never writes an empty filename.
func urlBasename(src string) (string, bool) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "" || base == "." || base == "/" {
		return u.Host, true
	}
	return base, true
}

// Copies a host file or directory tree into destDir, as either a recursive
// merge (directory), an extracted archive (tar file), or a plain copy
// (any other regular file).
func addHostPath(src, destDir string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		return fmt.Errorf("%w: statting %s: %w", ErrExecutor, src, err)
	}

	if info.IsDir() {
		target := filepath.Join(destDir, filepath.Base(src))
		tmp, err := os.CreateTemp("", "chmocker-add-*.tar")
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutor, err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		if err := tarcodec.Pack(src, tmp.Name()); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutor, err)
		}
		if err := tarcodec.Extract(tmp.Name(), target, ""); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutor, err)
		}
		return nil
	}

	if isTarFile(src) {
		if err := tarcodec.Extract(src, destDir, ""); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutor, err)
		}
		return nil
	}

	return copyFile(src, filepath.Join(destDir, filepath.Base(src)), info.Mode())
}

func isTarFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = tar.NewReader(f).Next()
	return err == nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ErrExecutor, src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrExecutor, dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("%w: copying %s to %s: %w", ErrExecutor, src, dst, err)
	}
	return nil
}
