package storage

import (
	"testing"

	"github.com/ipfs/go-cid"
)

type fakeCAS struct{ name string }

func (f fakeCAS) Put(data []byte) (cid.Cid, error) { return SumCID(data) }
func (f fakeCAS) Get(id cid.Cid) ([]byte, error)   { return nil, ErrNotFound }
func (f fakeCAS) Has(id cid.Cid) bool              { return false }

func testOpeners(opened *[]string, closed *[]string) map[string]BackendOpener {
	mk := func(name string) BackendOpener {
		return func(arg string) (CAS, func() error, error) {
			label := name
			if arg != "" {
				label += ":" + arg
			}
			*opened = append(*opened, label)
			return fakeCAS{name: label}, func() error {
				*closed = append(*closed, label)
				return nil
			}, nil
		}
	}
	return map[string]BackendOpener{"localfs": mk("localfs"), "grpc": mk("grpc")}
}

func TestOpen_SingleBackend(t *testing.T) {
	var opened, closed []string
	cas, closeFn, err := Open("localfs:/tmp/blobs", testOpeners(&opened, &closed))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := cas.(fakeCAS); !ok {
		t.Fatalf("single spec should not wrap in MultiCAS, got %T", cas)
	}
	if len(opened) != 1 || opened[0] != "localfs:/tmp/blobs" {
		t.Fatalf("opened = %v", opened)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(closed) != 1 {
		t.Fatalf("closed = %v", closed)
	}
}

func TestOpen_FallbackOrderPreserved(t *testing.T) {
	var opened, closed []string
	cas, closeFn, err := Open("grpc:127.0.0.1:7788, localfs:/tmp/blobs", testOpeners(&opened, &closed))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = closeFn() }()

	m, ok := cas.(MultiCAS)
	if !ok {
		t.Fatalf("expected MultiCAS, got %T", cas)
	}
	if len(m.Backends) != 2 {
		t.Fatalf("backend count = %d", len(m.Backends))
	}
	if m.Backends[0].(fakeCAS).name != "grpc:127.0.0.1:7788" {
		t.Fatalf("write backend = %s", m.Backends[0].(fakeCAS).name)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	var opened, closed []string
	if _, _, err := Open("localfs:/a,bogus:x", testOpeners(&opened, &closed)); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	// The already-opened backend must be released on failure.
	if len(closed) != 1 {
		t.Fatalf("closed = %v", closed)
	}
}

func TestOpen_EmptySpec(t *testing.T) {
	if _, _, err := Open("  ,  ", nil); err == nil {
		t.Fatalf("expected error for empty spec")
	}
}
