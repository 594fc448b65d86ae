package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name of the store directory under the user's home.
	storeName = ".chmo"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Default root of the on-disk store.
//
//	$HOME/.chmo
//
// The store root is persistent user data, not runtime/socket state, so it is
// anchored on xdg.Home rather than xdg.RuntimeDir or xdg.CacheHome.
func DefaultRoot() string {
	return filepath.Join(xdg.Home, storeName)
}
