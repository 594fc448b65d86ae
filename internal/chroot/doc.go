// Scoped acquisition of an unpacked image root as a chroot-isolated
// execution environment.
//
// A Session moves through a linear state machine, Constructed -> Prepared
// -> Torn, mirroring the guaranteed-teardown contract the teacher expresses
// with defer in internal/build/recipe.go ("defer r.destroyContainers(ctx)").
// Use wraps that contract directly: it prepares a session, guarantees
// Teardown runs on every exit path of the supplied function, and returns
// whatever error occurred first.
package chroot
