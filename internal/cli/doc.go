// Parses flags and configures logging for the chmocker binary.
//
// Every command accepts:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// selected command runs. Every command but "version" requires effective
// uid 0, since building, creating and running images shell out to chroot
// or mount.
package cli
