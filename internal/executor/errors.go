package executor

import "errors"

var (
	ErrExecutor            = errors.New("instruction executor error")
	ErrUnsupportedInstr    = errors.New("unsupported instruction")
	ErrNotImplemented      = errors.New("instruction not implemented")
	ErrSourceNotFound      = errors.New("source not found")
	ErrPathNotFoundInStage = errors.New("path not found in stage")
)
