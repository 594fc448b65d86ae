package runimage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chmocker/chmocker/internal/store"
	"github.com/chmocker/chmocker/internal/tarcodec"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	return st
}

func TestRunRequiresCommand(t *testing.T) {
	st := newTestStore(t)
	err := Run(st, Options{Tag: "base"})
	if !errors.Is(err, ErrNoCommand) {
		t.Fatalf("Run() error = %v, want ErrNoCommand", err)
	}
}

func TestUnpackFailsWhenImageMissing(t *testing.T) {
	st := newTestStore(t)
	err := unpack(st, "nonexistent", false)
	if !errors.Is(err, ErrImageMissing) {
		t.Fatalf("unpack() error = %v, want ErrImageMissing", err)
	}
}

func TestUnpackExtractsFromTar(t *testing.T) {
	st := newTestStore(t)
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "marker"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := tarcodec.Pack(srcDir, st.TarPath("base")); err != nil {
		t.Fatalf("tarcodec.Pack() error = %v", err)
	}

	if err := unpack(st, "base", false); err != nil {
		t.Fatalf("unpack() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(st.MountPath("base"), "marker")); err != nil {
		t.Fatalf("expected marker extracted: %v", err)
	}
}

func TestUnpackReusesExistingTreeWithoutRefresh(t *testing.T) {
	st := newTestStore(t)
	if err := os.MkdirAll(st.MountPath("base"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	sentinel := filepath.Join(st.MountPath("base"), "sentinel")
	if err := os.WriteFile(sentinel, []byte("keep"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := unpack(st, "base", false); err != nil {
		t.Fatalf("unpack() error = %v", err)
	}
	if _, err := os.Stat(sentinel); err != nil {
		t.Fatalf("sentinel removed despite reuse: %v", err)
	}
}
