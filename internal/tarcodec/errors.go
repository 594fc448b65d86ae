package tarcodec

import "errors"

var (
	ErrTarCodec    = errors.New("tar codec error")
	ErrNotFound    = errors.New("tar archive not found")
	ErrEmptyFilter = errors.New("prefix filter matched no members")
	ErrUnsafe      = errors.New("tar archive contains an unsafe member path")
)
