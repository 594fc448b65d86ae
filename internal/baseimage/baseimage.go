package baseimage

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/chmocker/chmocker/internal/chroot"
	"github.com/chmocker/chmocker/internal/store"
	"github.com/chmocker/chmocker/internal/tarcodec"
)

// Flags accepted by "image create".
type Options struct {
	Tag      string
	Recreate bool
	NoTar    bool
	NoRemove bool
	NoBrew   bool
}

// Synthesises a base image tree at the store's mount path for opts.Tag by
// copying system paths from the host, then optionally bootstraps Homebrew
// and packs the result. If the mount tree already exists and Recreate is
// false, Create is a no-op.
func Create(st *store.Store, opts Options) error {
	mountPath := st.MountPath(opts.Tag)

	if st.ExistsMount(opts.Tag) && !opts.Recreate {
		logrus.Infof("image %s already created, skipping (use --recreate to force)", opts.Tag)
		return nil
	}

	if err := copyDyldLibs(mountPath); err != nil {
		return fmt.Errorf("%w: %w", ErrBaseImage, err)
	}
	if err := copySystemPaths(mountPath, systemImagePaths); err != nil {
		return fmt.Errorf("%w: %w", ErrBaseImage, err)
	}
	if err := createSystemStuff(mountPath); err != nil {
		return fmt.Errorf("%w: %w", ErrBaseImage, err)
	}

	if !opts.NoBrew {
		if err := installBrew(mountPath); err != nil {
			return fmt.Errorf("%w: %w", ErrBaseImage, err)
		}
	}

	if !opts.NoTar {
		if err := tarcodec.Pack(mountPath, st.TarPath(opts.Tag)); err != nil {
			return fmt.Errorf("%w: packing %s: %w", ErrBaseImage, opts.Tag, err)
		}
	}
	if !opts.NoTar && !opts.NoRemove {
		if err := store.Remove(mountPath); err != nil {
			return fmt.Errorf("%w: %w", ErrBaseImage, err)
		}
	}

	return nil
}

// Copies the host's dyld shared cache(s) into <mountPath>/System/Library/dyld.
// Absent on hosts where the Preboot volume layout differs; a glob match of
// zero is not an error.
func copyDyldLibs(mountPath string) error {
	matches, err := filepath.Glob(dyldSharedCacheGlob)
	if err != nil {
		return fmt.Errorf("globbing dyld shared cache: %w", err)
	}

	target := filepath.Join(mountPath, "System", "Library", "dyld")
	if len(matches) == 0 {
		return nil
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	for _, lib := range matches {
		logrus.Infof("copying %s to %s/", lib, target)
		if err := copyWithMetadata(lib, target); err != nil {
			return err
		}
	}
	return nil
}

// Copies each of paths into mountPath, preserving its parent directory
// structure relative to root.
func copySystemPaths(mountPath string, paths []string) error {
	for _, path := range paths {
		targetDir := filepath.Join(mountPath, filepath.Dir(path))
		logrus.Infof("copying %s to %s/", path, targetDir)
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", targetDir, err)
		}
		if err := copyWithMetadata(path, targetDir); err != nil {
			return err
		}
	}
	return nil
}

// Shells out to cp -a, matching the original's shutil.copytree(symlinks,
// copy_function=shutil.copy2) semantics without reimplementing a metadata-
// preserving recursive copy in Go.
func copyWithMetadata(src, targetDir string) error {
	if _, err := os.Lstat(src); os.IsNotExist(err) {
		return nil
	}
	out, err := exec.Command("cp", "-a", src, targetDir+"/").CombinedOutput()
	if err != nil {
		return fmt.Errorf("cp -a %s %s/: %w: %s", src, targetDir, err, out)
	}
	return nil
}

// Lays down the handful of directories and files every base image needs
// regardless of what was copied from the host: /root, /var/run, /dev,
// /private/tmp, a /tmp symlink to /private/tmp, and a .dockerenv marker.
func createSystemStuff(mountPath string) error {
	for _, dir := range []string{"root", "var/run", "dev", "private/tmp"} {
		if err := os.MkdirAll(filepath.Join(mountPath, dir), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	tmpLink := filepath.Join(mountPath, "tmp")
	if _, err := os.Lstat(tmpLink); err == nil {
		if err := store.Remove(tmpLink); err != nil {
			return err
		}
	}
	if err := os.Symlink("/private/tmp", tmpLink); err != nil {
		return fmt.Errorf("symlinking %s: %w", tmpLink, err)
	}

	dockerEnv := filepath.Join(mountPath, ".dockerenv")
	f, err := os.OpenFile(dockerEnv, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dockerEnv, err)
	}
	return f.Close()
}

// Bootstraps Homebrew inside the image tree via a throwaway chroot session.
func installBrew(mountPath string) error {
	logrus.Infof("installing brew into %s", mountPath)
	return chroot.Use(mountPath, func(s *chroot.Session) error {
		_, err := s.Exec(brewInstallCmd, false, nil)
		return err
	})
}
