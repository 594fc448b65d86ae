package recipe

import "errors"

var ErrParse = errors.New("recipe parse error")
