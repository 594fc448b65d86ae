// Synthesises a base image tree directly from the host filesystem: the
// "image create" verb, an external collaborator to the build driver rather
// than part of THE CORE.
//
// Grounded on the original's copy_system_to_image/copy_dyld_libs_to_image/
// create_system_stuff/install_brew_into_image and CHMOCKER_SYSTEM_IMAGE_PATHS,
// reusing internal/chroot for the Homebrew bootstrap and internal/tarcodec
// for the final pack, in place of the original's shutil/tarfile calls.
package baseimage
