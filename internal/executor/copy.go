package executor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chmocker/chmocker/internal/tarcodec"
)

const fromPrefix = "--from="

// Handles "COPY --from=<stage> <src> <dst>". Plain COPY (no --from) stays
// unimplemented, matching the original's NotImplemented and preserved as a
// deliberate decision rather than an oversight.
func execCopy(deps Deps, value string) error {
	fields := strings.Fields(value)
	if len(fields) != 3 || !strings.HasPrefix(fields[0], fromPrefix) {
		return fmt.Errorf("%w: COPY without --from", ErrNotImplemented)
	}

	stage := strings.TrimPrefix(fields[0], fromPrefix)
	src := fields[1]

	tarPath := deps.Store.TarPath(stage)
	prefix := strings.TrimPrefix(src, "/")

	err := tarcodec.Extract(tarPath, deps.Session.MountRoot(), prefix)
	switch {
	case errors.Is(err, tarcodec.ErrEmptyFilter):
		return fmt.Errorf("%w: %s in stage %s", ErrPathNotFoundInStage, src, stage)
	case err != nil:
		return fmt.Errorf("%w: %w", ErrExecutor, err)
	}
	return nil
}
