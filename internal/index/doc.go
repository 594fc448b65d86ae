// Persists the tag-to-hash mapping that lets the build driver skip stages
// it has already built.
//
// The Index is a single JSON object on disk, guarded by a flock(2)-based
// cross-process lock for the duration of one build invocation. Writes go to
// a sibling file and are renamed into place so a crash mid-write never
// leaves index.json truncated.
package index
