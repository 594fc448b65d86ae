package stageplan

import "errors"

var ErrNoBase = errors.New("recipe has no FROM instruction")
