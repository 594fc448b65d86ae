package build

import (
	"fmt"
	"io"
	"os"

	"github.com/chmocker/chmocker/internal/chroot"
	"github.com/chmocker/chmocker/internal/executor"
	"github.com/chmocker/chmocker/internal/index"
	"github.com/chmocker/chmocker/internal/stageplan"
	"github.com/chmocker/chmocker/internal/store"
	"github.com/chmocker/chmocker/internal/tarcodec"
)

// Flags accepted by the build verb.
type Options struct {
	Tag      string
	Refresh  bool
	NoTar    bool
	NoRemove bool
}

// Outcome of a full build run, for the CLI to report.
type Result struct {
	Tag           string
	StagesBuilt   int
	StagesSkipped int
}

// Walks stages in order, resolving and applying each one against st and
// idx. Stops at the first failing stage; earlier stages remain cached.
func Run(st *store.Store, idx *index.Index, stages []stageplan.Stage, opts Options) (Result, error) {
	var result Result

	for _, stage := range stages {
		a := resolve(stage, idx, st, opts.Tag)

		if a.build {
			if err := buildStage(st, stage, a.buildKey, opts); err != nil {
				return result, fmt.Errorf("%w: stage %s: %w", ErrBuild, stageLabel(stage), err)
			}
			result.StagesBuilt++
		} else {
			result.StagesSkipped++
		}

		for _, p := range a.promote {
			if err := promote(st, idx, p); err != nil {
				return result, fmt.Errorf("%w: stage %s: %w", ErrBuild, stageLabel(stage), err)
			}
		}
	}

	result.Tag = opts.Tag
	return result, nil
}

func stageLabel(stage stageplan.Stage) string {
	if stage.StageName != "" {
		return stage.StageName
	}
	return stage.Hash
}

// Materialises key's unpacked tree from base's tar, runs every instruction
// of the stage inside a chroot session, and packs/cleans up per opts. The
// session's teardown always runs, even when an instruction fails. Packing
// and tree removal happen only after a successful session; on failure any
// tar under key is removed and the unpacked tree is left in place.
func buildStage(st *store.Store, stage stageplan.Stage, key string, opts Options) error {
	if err := materialize(st, stage.BaseRef, key, opts.Refresh); err != nil {
		return err
	}

	mountPath := st.MountPath(key)
	deps := executor.Deps{Store: st}

	var execErr error
	sessionErr := chroot.Use(mountPath, func(s *chroot.Session) error {
		deps.Session = s
		for _, instr := range stage.Instructions {
			if err := executor.Execute(deps, instr); err != nil {
				execErr = err
				return err
			}
		}
		return nil
	})

	failed := execErr != nil || sessionErr != nil
	if failed {
		if st.ExistsTar(key) {
			_ = store.Remove(st.TarPath(key))
		}
		if execErr != nil {
			return execErr
		}
		return sessionErr
	}

	if !opts.NoTar {
		if err := packStage(st, key); err != nil {
			return err
		}
	}
	if !opts.NoRemove {
		if err := store.Remove(mountPath); err != nil {
			return err
		}
	}
	return nil
}

func packStage(st *store.Store, key string) error {
	if err := tarcodec.Pack(st.MountPath(key), st.TarPath(key)); err != nil {
		return fmt.Errorf("%w: packing stage %s: %w", ErrBuild, key, err)
	}
	return nil
}

// Ensures key's unpacked tree exists, reusing it unless forceRefresh is set
// or it is simply absent, in which case base's tar is extracted fresh.
func materialize(st *store.Store, base, key string, forceRefresh bool) error {
	if st.ExistsMount(key) && !forceRefresh {
		return nil
	}

	if st.ExistsMount(key) {
		if err := store.Remove(st.MountPath(key)); err != nil {
			return err
		}
	}

	if !st.ExistsTar(base) {
		return fmt.Errorf("%w: %s", ErrBaseImageMissing, base)
	}

	return tarcodec.Extract(st.TarPath(base), st.MountPath(key), "")
}

// Copies the tar artifact under p.fromKey to p.toKey and records the
// promotion in the index.
func promote(st *store.Store, idx *index.Index, p promotion) error {
	if p.fromKey != p.toKey {
		if err := copyFile(st.TarPath(p.fromKey), st.TarPath(p.toKey)); err != nil {
			return fmt.Errorf("%w: promoting %s to %s: %w", ErrBuild, p.fromKey, p.toKey, err)
		}
	}
	if err := idx.Put(p.toKey, p.hash); err != nil {
		return fmt.Errorf("%w: recording %s in index: %w", ErrBuild, p.toKey, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
