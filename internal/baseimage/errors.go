package baseimage

import "errors"

var ErrBaseImage = errors.New("base image creation failed")
