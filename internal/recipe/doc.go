// Tokenises a build recipe (a Dockerfile-compatible text format) into a
// flat, ordered sequence of instructions.
//
// Parsing does no interpretation beyond splitting each logical line into an
// operator and a value: no variable expansion, no validation of the
// operator against a known set. Hand-rolled rather than built on
// moby/buildkit's Dockerfile parser, which discards comment lines by
// default — this package's caller (internal/stageplan) needs comment bytes
// to participate in the stage hash.
package recipe
