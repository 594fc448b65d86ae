package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/chmocker/chmocker/internal"
)

// Represents the root command for the chmocker binary.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Build   BuildCmd   `cmd:"" help:"Build an image from a Dockerfile-like recipe."`
	Image   ImageCmd   `cmd:"" help:"Manage base images."`
	Run     RunCmd     `cmd:"" help:"Run a command inside an image."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, checks privilege, and runs the
// selected subcommand.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("A minimal, cache-aware container-image toolchain for macOS."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	if !strings.HasPrefix(kongCtx.Command(), "version") && os.Geteuid() != 0 {
		return ErrNotPrivileged
	}

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	switch {
	case debug:
		logrus.SetLevel(logrus.DebugLevel)
	case quiet:
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          verbose,
		DisableColors:          !isatty(os.Stderr),
		DisableLevelTruncation: verbose,
	})
	logrus.SetOutput(os.Stderr)
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
