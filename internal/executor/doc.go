// Dispatches recipe instructions against a prepared chroot session.
//
// Grounded on the teacher's internal/build/step.go dispatch shape (a
// switch over the operation present on a step) and the original's
// parse_add_instr/parse_copy_instr. URL downloads for ADD use
// github.com/hashicorp/go-getter instead of the original's
// urllib.request.urlretrieve.
package executor
