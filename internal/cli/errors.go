package cli

import "errors"

// Returned at startup when the process is not running as root.
var ErrNotPrivileged = errors.New("chmocker must be run as root")
