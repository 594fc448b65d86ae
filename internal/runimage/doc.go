// Unpacks a previously built or created image and runs a single command
// inside it: the "run" verb.
//
// Grounded on the original's run() method and unpack_image/exec_in_chroot,
// reusing internal/chroot and internal/tarcodec rather than the original's
// shutil/subprocess calls. Defaulting to an interactive shell when no
// command is given is out of scope, per the design notes; a command is
// required.
package runimage
