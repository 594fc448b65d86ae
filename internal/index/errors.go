package index

import "errors"

var (
	ErrIndex        = errors.New("index error")
	ErrIndexCorrupt = errors.New("index file is not valid JSON")
)
