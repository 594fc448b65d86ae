package executor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chmocker/chmocker/internal/chroot"
	"github.com/chmocker/chmocker/internal/recipe"
	"github.com/chmocker/chmocker/internal/store"
	"github.com/chmocker/chmocker/internal/tarcodec"
)

func newTestDeps(t *testing.T) (Deps, string) {
	t.Helper()
	mountRoot := t.TempDir()
	session, err := chroot.New(mountRoot)
	if err != nil {
		t.Fatalf("chroot.New() error = %v", err)
	}
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	return Deps{Session: session, Store: s}, mountRoot
}

func TestExecuteCommentAndFromAreNoOps(t *testing.T) {
	deps, _ := newTestDeps(t)
	if err := Execute(deps, recipe.Instruction{Op: "COMMENT", RawLine: "# hi"}); err != nil {
		t.Fatalf("Execute(COMMENT) error = %v", err)
	}
	if err := Execute(deps, recipe.Instruction{Op: "FROM", RawLine: "FROM base"}); err != nil {
		t.Fatalf("Execute(FROM) error = %v", err)
	}
}

func TestExecuteUnsupportedOp(t *testing.T) {
	deps, _ := newTestDeps(t)
	err := Execute(deps, recipe.Instruction{Op: "WORKDIR", Value: "/app", RawLine: "WORKDIR /app"})
	if !errors.Is(err, ErrUnsupportedInstr) {
		t.Fatalf("Execute(WORKDIR) error = %v, want ErrUnsupportedInstr", err)
	}
}

func TestExecCopyWithoutFromIsNotImplemented(t *testing.T) {
	deps, _ := newTestDeps(t)
	err := execCopy(deps, "/src /dst")
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("execCopy() error = %v, want ErrNotImplemented", err)
	}
}

func TestExecCopyFromStage(t *testing.T) {
	deps, mountRoot := newTestDeps(t)

	srcTree := t.TempDir()
	if err := os.MkdirAll(filepath.Join(srcTree, "opt"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcTree, "opt", "file.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := tarcodec.Pack(srcTree, deps.Store.TarPath("s1")); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}

	if err := execCopy(deps, "--from=s1 /opt /opt"); err != nil {
		t.Fatalf("execCopy() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(mountRoot, "opt", "file.txt"))
	if err != nil || string(got) != "hi" {
		t.Fatalf("opt/file.txt = %q, %v, want hi, nil", got, err)
	}
}

func TestExecCopyMissingPathInStage(t *testing.T) {
	deps, _ := newTestDeps(t)

	srcTree := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcTree, "file.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := tarcodec.Pack(srcTree, deps.Store.TarPath("s1")); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}

	err := execCopy(deps, "--from=s1 /absent /x")
	if !errors.Is(err, ErrPathNotFoundInStage) {
		t.Fatalf("execCopy() error = %v, want ErrPathNotFoundInStage", err)
	}
}

func TestExecAddMissingSource(t *testing.T) {
	deps, _ := newTestDeps(t)
	err := execAdd(deps, "/nonexistent/host/path /opt")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("execAdd() error = %v, want ErrSourceNotFound", err)
	}
}

func TestExecAddPlainFile(t *testing.T) {
	deps, mountRoot := newTestDeps(t)

	src := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(src, []byte("binary"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := execAdd(deps, src+" /opt"); err != nil {
		t.Fatalf("execAdd() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(mountRoot, "opt", "payload.bin"))
	if err != nil || string(got) != "binary" {
		t.Fatalf("opt/payload.bin = %q, %v, want binary, nil", got, err)
	}
}

func TestExecAddTarFileExtracts(t *testing.T) {
	deps, mountRoot := newTestDeps(t)

	payloadDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(payloadDir, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	tarPath := filepath.Join(t.TempDir(), "payload.tar")
	if err := tarcodec.Pack(payloadDir, tarPath); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}

	if err := execAdd(deps, tarPath+" /opt"); err != nil {
		t.Fatalf("execAdd() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(mountRoot, "opt", "a.txt"))
	if err != nil || string(got) != "a" {
		t.Fatalf("opt/a.txt = %q, %v, want a, nil", got, err)
	}
}

func TestExecAddDirectory(t *testing.T) {
	deps, mountRoot := newTestDeps(t)

	src := filepath.Join(t.TempDir(), "payload")
	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := execAdd(deps, src+" /opt"); err != nil {
		t.Fatalf("execAdd() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(mountRoot, "opt", "payload", "a.txt"))
	if err != nil || string(got) != "a" {
		t.Fatalf("opt/payload/a.txt = %q, %v, want a, nil", got, err)
	}
}

func TestURLBasename(t *testing.T) {
	cases := []struct {
		src      string
		wantName string
		wantOK   bool
	}{
		{"https://example.com/foo/bar.tar.gz", "bar.tar.gz", true},
		{"https://example.com/dir/", "dir", true},
		{"https://example.com/", "example.com", true},
		{"/host/local/path", "", false},
		{"./relative/path", "", false},
	}

	for _, c := range cases {
		name, ok := urlBasename(c.src)
		if ok != c.wantOK || (ok && name != c.wantName) {
			t.Fatalf("urlBasename(%q) = (%q, %v), want (%q, %v)", c.src, name, ok, c.wantName, c.wantOK)
		}
	}
}
