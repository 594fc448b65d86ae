package runimage

import "errors"

var (
	ErrRun          = errors.New("run failed")
	ErrNoCommand    = errors.New("no command given")
	ErrImageMissing = errors.New("image not found")
)
