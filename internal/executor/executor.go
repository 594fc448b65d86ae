package executor

import (
	"fmt"

	"github.com/chmocker/chmocker/internal/chroot"
	"github.com/chmocker/chmocker/internal/recipe"
	"github.com/chmocker/chmocker/internal/store"
)

// Everything an instruction dispatch needs: the prepared session it runs
// against, and the store it reads COPY --from stage tars from.
type Deps struct {
	Session *chroot.Session
	Store   *store.Store
}

// Dispatches one instruction against a prepared session. Echoes the raw
// line to stdout first, for operator visibility, before doing anything
// that could fail.
func Execute(deps Deps, instr recipe.Instruction) error {
	fmt.Println(instr.RawLine)

	switch instr.Op {
	case "COMMENT", "FROM":
		return nil
	case "RUN":
		return execRun(deps, instr.Value)
	case "ADD":
		return execAdd(deps, instr.Value)
	case "COPY":
		return execCopy(deps, instr.Value)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedInstr, instr.Op)
	}
}

func execRun(deps Deps, command string) error {
	_, err := deps.Session.Exec(command, false, nil)
	return err
}
