// Owns the on-disk layout of a chmocker store: tar artifacts, unpacked
// image trees, and the index file.
//
// A Store is rooted at an explicit directory passed to New, so callers (and
// tests) control where it lives; there is no process-wide global path.
package store
