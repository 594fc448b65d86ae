package build

import "errors"

var (
	ErrBuild            = errors.New("build failed")
	ErrBaseImageMissing = errors.New("base image missing")
)
