// Provides the default location of the on-disk store.
//
// The store root is a single directory, ".chmo", anchored under the user's
// home directory via github.com/adrg/xdg. internal/store takes this (or any
// other) root as an explicit constructor argument, so tests can redirect it
// to a tempdir without touching this package.
package paths
