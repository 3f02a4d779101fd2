package localfs

import (
	"os"
	"testing"

	"certifychain.io/certify/storage"
	"certifychain.io/certify/storage/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		s, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return s
	})
}

func TestLocalFS_RequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestLocalFS_DetectsOutOfBandCorruption(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	orig := []byte("original blob")
	id, err := s.Put(orig)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	path := s.pathFor(id)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	if err := os.WriteFile(path, []byte("corrupted"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := s.Get(id); err != storage.ErrCIDMismatch {
		t.Fatalf("Get after corruption: got %v want ErrCIDMismatch", err)
	}
	// Put must not silently repair the corrupted object either.
	if _, err := s.Put(orig); err != storage.ErrImmutable {
		t.Fatalf("Put after corruption: got %v want ErrImmutable", err)
	}
}
