package baseimage

// Host paths copied wholesale into every freshly created base image. Order
// does not matter; each is copied independently with cp -a semantics
// (metadata and symlinks preserved).
var systemImagePaths = []string{
	"/bin",
	"/sbin",
	"/usr/lib",
	"/usr/bin",
	"/usr/sbin",
	"/usr/share",
	"/usr/libexec",
	"/etc/pam.d",
	"/etc/ssl",
	"/etc/sudoers",
	"/var/db/timezone",
	"/System/Library/CoreServices/SystemVersion.plist",
	"/System/Library/CoreServices/SystemVersionCompat.plist",
	"/System/Library/Frameworks",
	"/System/Library/Perl",
	"/Library/Developer/CommandLineTools",
	"/usr/libexec/rosetta",
	"/Library/Apple/usr/libexec/oah",
}

const dyldSharedCacheGlob = "/System/Volumes/Preboot/Cryptexes/OS/System/Library/dyld/dyld_shared_cache_*"

const brewInstallCmd = `bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`
