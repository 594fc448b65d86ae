package runimage

import (
	"fmt"

	"github.com/chmocker/chmocker/internal/chroot"
	"github.com/chmocker/chmocker/internal/store"
	"github.com/chmocker/chmocker/internal/tarcodec"
)

// Flags accepted by "run".
type Options struct {
	Tag         string
	Command     string
	Remove      bool
	Interactive bool
	Refresh     bool
	ExtraEnv    []string
}

// Unpacks opts.Tag's image (reusing an existing tree unless Refresh is
// set), executes opts.Command inside a chroot session, and removes the
// tree afterward if Remove is set.
func Run(st *store.Store, opts Options) error {
	if opts.Command == "" {
		return ErrNoCommand
	}

	mountPath := st.MountPath(opts.Tag)
	if err := unpack(st, opts.Tag, opts.Refresh); err != nil {
		return fmt.Errorf("%w: %w", ErrRun, err)
	}

	err := chroot.Use(mountPath, func(s *chroot.Session) error {
		_, err := s.Exec(opts.Command, opts.Interactive, opts.ExtraEnv)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRun, err)
	}

	if opts.Remove {
		if err := store.Remove(mountPath); err != nil {
			return fmt.Errorf("%w: %w", ErrRun, err)
		}
	}
	return nil
}

// Ensures tag's tree exists at the store's mount path, extracting its tar
// unless the tree is already present and forceRefresh is false.
func unpack(st *store.Store, tag string, forceRefresh bool) error {
	if st.ExistsMount(tag) && !forceRefresh {
		return nil
	}
	if st.ExistsMount(tag) {
		if err := store.Remove(st.MountPath(tag)); err != nil {
			return err
		}
	}
	if !st.ExistsTar(tag) {
		return fmt.Errorf("%w: %s", ErrImageMissing, tag)
	}
	return tarcodec.Extract(st.TarPath(tag), st.MountPath(tag), "")
}
