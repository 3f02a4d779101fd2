package crosscheck

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestRegister(t *testing.T) {
	client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/add_legit" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "degree.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "document bytes" {
			t.Errorf("content = %q", content)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"hash":      "0xservicehash",
			"embedding": []float64{0.1, 0.2, 0.3},
		})
	})

	reg, err := client.Register(context.Background(), "degree.pdf", []byte("document bytes"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Hash != "0xservicehash" {
		t.Fatalf("hash = %q", reg.Hash)
	}
	if len(reg.Embedding) != 3 {
		t.Fatalf("embedding = %v", reg.Embedding)
	}
}

func TestCheck(t *testing.T) {
	client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"hash":       "0xservicehash",
			"similarity": "100%",
		})
	})

	rep, err := client.Check(context.Background(), "degree.pdf", []byte("x"))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !rep.ExactMatch() {
		t.Fatalf("similarity %q not treated as exact match", rep.Similarity)
	}
}

func TestReport_ExactMatch(t *testing.T) {
	cases := []struct {
		similarity string
		want       bool
	}{
		{"100%", true},
		{"100", true},
		{" 100% ", true},
		{"99.99%", false},
		{"0%", false},
		{"garbage", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := (Report{Similarity: tc.similarity}).ExactMatch(); got != tc.want {
			t.Errorf("ExactMatch(%q) = %v, want %v", tc.similarity, got, tc.want)
		}
	}
}

func TestErrorStatusSurfaced(t *testing.T) {
	client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "document not recognized", http.StatusUnprocessableEntity)
	})

	_, err := client.Check(context.Background(), "degree.pdf", []byte("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "document not recognized") {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingHashRejected(t *testing.T) {
	client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	if _, err := client.Register(context.Background(), "f.pdf", []byte("x")); err == nil {
		t.Fatalf("Register accepted an empty response")
	}
	if _, err := client.Check(context.Background(), "f.pdf", []byte("x")); err == nil {
		t.Fatalf("Check accepted an empty response")
	}
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	client := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can detect the
		// client disconnect and cancel r.Context(); otherwise the handler
		// and srv.Close deadlock.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := client.Check(ctx, "f.pdf", []byte("x"))
		errc <- err
	}()
	<-started
	cancel()

	select {
	case err := <-errc:
		if err == nil {
			t.Fatalf("expected cancellation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("request did not unwind after cancel")
	}
}
