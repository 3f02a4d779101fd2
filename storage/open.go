package storage

import (
	"fmt"
	"strings"
)

// BackendOpener constructs a CAS from the argument portion of a backend
// spec. Openers are registered by the binaries that link the backend
// packages, which keeps this package free of adapter imports.
type BackendOpener func(arg string) (CAS, func() error, error)

// Open resolves a comma-separated backend spec into a single CAS.
//
// Each element has the form "name" or "name:arg" (e.g. "localfs:/var/blobs",
// "ipfs", "grpc:127.0.0.1:7788"). One element opens that backend directly;
// several compose a MultiCAS in the given order, so the first element takes
// writes and the rest serve as read fallbacks.
func Open(spec string, openers map[string]BackendOpener) (CAS, func() error, error) {
	parts := splitSpec(spec)
	if len(parts) == 0 {
		return nil, nil, fmt.Errorf("storage: empty backend spec")
	}

	var (
		backends []CAS
		closers  []func() error
	)
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	for _, part := range parts {
		name, arg, _ := strings.Cut(part, ":")
		open, ok := openers[name]
		if !ok {
			_ = closeAll()
			return nil, nil, fmt.Errorf("storage: unknown backend %q", name)
		}
		cas, closeFn, err := open(arg)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("storage: open %q: %w", name, err)
		}
		backends = append(backends, cas)
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(backends) == 1 {
		return backends[0], closeAll, nil
	}
	return MultiCAS{Backends: backends}, closeAll, nil
}

func splitSpec(spec string) []string {
	var out []string
	for _, p := range strings.Split(spec, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
