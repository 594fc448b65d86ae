// Packs a directory's immediate children into a POSIX tar archive and
// extracts archives back into a directory, optionally filtered to members
// under a path prefix.
//
// Grounded on the teacher's own archive/tar usage in internal/build/copy.go:
// this package reaches for the standard library the same way the teacher
// does, rather than a wrapper library.
package tarcodec
