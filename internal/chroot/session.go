package chroot

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const hostMDNSResponder = "/var/run/mDNSResponder"

type state int

const (
	constructed state = iota
	prepared
	torn
)

// Result of a single command executed inside a prepared session.
type ExecResult struct {
	ExitCode int
}

// A scoped acquisition of a chroot root. mountRoot must already hold an
// unpacked image tree. The session owns two host-visible side effects: a
// hardlink for name resolution and a devfs mount, both undone by Teardown.
type Session struct {
	mountRoot string
	state     state
}

// Root directory the session is chrooted into.
func (s *Session) MountRoot() string {
	return s.mountRoot
}

// Binds a session to mountRoot, which must already exist as an unpacked
// image tree. Does not touch the filesystem yet; call Prepare to do that.
func New(mountRoot string) (*Session, error) {
	info, err := os.Stat(mountRoot)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotUnpacked, mountRoot)
	}
	return &Session{mountRoot: mountRoot}, nil
}

// Opens a session on mountRoot, prepares it, runs fn, and guarantees
// Teardown runs before returning — on success, on an error from fn, or on
// a panic unwinding through fn. The first error encountered (from New,
// Prepare, or fn) is returned; a Teardown failure is logged and never
// masks it.
func Use(mountRoot string, fn func(*Session) error) error {
	s, err := New(mountRoot)
	if err != nil {
		return err
	}
	if err := s.Prepare(); err != nil {
		return err
	}
	defer s.Teardown()

	return fn(s)
}

// Links the host's mDNSResponder socket into the chroot and mounts devfs
// at <mountRoot>/dev. Must be called exactly once, before Exec.
func (s *Session) Prepare() error {
	if s.state != constructed {
		return fmt.Errorf("%w: Prepare called in state %d", ErrContractViolation, s.state)
	}

	dnsPath := s.dnsResponderPath()
	if _, err := os.Lstat(dnsPath); err == nil {
		if err := os.Remove(dnsPath); err != nil {
			return fmt.Errorf("%w: removing stale %s: %w", ErrChroot, dnsPath, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dnsPath), 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrChroot, filepath.Dir(dnsPath), err)
	}
	if err := os.Link(hostMDNSResponder, dnsPath); err != nil {
		return fmt.Errorf("%w: linking %s: %w", ErrChroot, hostMDNSResponder, err)
	}

	devPath := s.devPath()
	if out, err := exec.Command("mount", "-t", "devfs", "devfs", devPath).CombinedOutput(); err != nil {
		return fmt.Errorf("%w: mounting devfs at %s: %w: %s", ErrChroot, devPath, err, out)
	}

	s.state = prepared
	return nil
}

// Runs command inside the chroot via "/bin/sh -c", with the fixed
// HOME/PATH/Homebrew environment plus extraEnv appended. Host stdout and
// stderr are always attached; stdin is attached only when interactive is
// true. A non-zero exit is a CommandFailedError unless interactive is true,
// in which case it is returned as a nil error (callers should log a
// warning themselves) and the session remains usable.
func (s *Session) Exec(command string, interactive bool, extraEnv []string) (ExecResult, error) {
	if s.state != prepared {
		return ExecResult{}, fmt.Errorf("%w: Exec called in state %d", ErrContractViolation, s.state)
	}

	args := []string{s.mountRoot, "env", "-i"}
	args = append(args, fixedEnv()...)
	args = append(args, extraEnv...)
	args = append(args, "/bin/sh", "-c", command)

	cmd := exec.Command("chroot", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if interactive {
		cmd.Stdin = os.Stdin
	}

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return ExecResult{}, fmt.Errorf("%w: running chroot: %w", ErrChroot, runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	if exitCode != 0 && !interactive {
		return ExecResult{ExitCode: exitCode}, &CommandFailedError{Command: command, ExitCode: exitCode}
	}
	return ExecResult{ExitCode: exitCode}, nil
}

// Unmounts devfs and removes the mDNSResponder hardlink. Safe to call more
// than once; only the first call does anything. Failures are logged and
// suppressed so they never mask an earlier error from Exec.
func (s *Session) Teardown() {
	if s.state == torn {
		return
	}
	s.state = torn

	devPath := s.devPath()
	if out, err := exec.Command("umount", devPath).CombinedOutput(); err != nil {
		logrus.WithError(err).WithField("output", string(out)).Warnf("failed to unmount devfs at %s", devPath)
	}

	dnsPath := s.dnsResponderPath()
	if _, err := os.Lstat(dnsPath); err == nil {
		if err := os.Remove(dnsPath); err != nil {
			logrus.WithError(err).Warnf("failed to remove mDNSResponder hardlink at %s", dnsPath)
		}
	}
}

func (s *Session) devPath() string {
	return filepath.Join(s.mountRoot, "dev")
}

func (s *Session) dnsResponderPath() string {
	return filepath.Join(s.mountRoot, "var", "run", "mDNSResponder")
}

func fixedEnv() []string {
	return []string{
		"HOME=/root",
		`TERM="$TERM"`,
		`PS1='\u:\w\$ '`,
		`PATH="/opt/homebrew/bin:/opt/homebrew/sbin${PATH+:$PATH}"`,
		"TMPDIR=/tmp",
		"HOMEBREW_CELLAR=/opt/homebrew/Cellar",
		"HOMEBREW_PREFIX=/opt/homebrew",
		"HOMEBREW_REPOSITORY=/opt/homebrew",
		"HOMEBREW_TEMP=/tmp",
		"NONINTERACTIVE=1",
		"SHELL=/bin/bash",
		"CONFIG_SHELL=/bin/bash",
	}
}
