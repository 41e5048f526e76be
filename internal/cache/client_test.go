package cache

import (
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"
)

// startTestDaemon serves the cache protocol on a throwaway unix socket
// backed by a bolt store, the way cmd/cache-server does.
func startTestDaemon(t *testing.T) *Client {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenBolt(filepath.Join(dir, "cache.bbolt"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	sock := filepath.Join(dir, "cache.sock")
	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go ServeConn(conn, store)
		}
	}()
	return NewClient(sock)
}

func TestClientRoundTrip(t *testing.T) {
	c := startTestDaemon(t)

	if err := c.Put("k1", []byte("v1"), "cat-a", time.Hour); err != nil {
		t.Fatal(err)
	}
	v, err := c.Get("k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "v1" {
		t.Errorf("unexpected value: %s", v)
	}
}

func TestClientNotFoundAndExpired(t *testing.T) {
	c := startTestDaemon(t)

	if _, err := c.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound over the wire, got %v", err)
	}

	if err := c.Put("k1", []byte("v1"), "cat-a", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := c.Get("k1"); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired over the wire, got %v", err)
	}
}

func TestClientDeleteAndClearCategory(t *testing.T) {
	c := startTestDaemon(t)

	if err := c.Put("k1", []byte("v1"), "cat-a", time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k2", []byte("v2"), "cat-b", time.Hour); err != nil {
		t.Fatal(err)
	}

	if err := c.Delete("k1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("k1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("k1 should be deleted, got %v", err)
	}

	if err := c.ClearCategory("cat-b"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("k2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("k2 should be cleared, got %v", err)
	}
}

func TestClientStats(t *testing.T) {
	c := startTestDaemon(t)

	if err := c.Put("k1", []byte("v1"), "cat-a", time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("k1"); err != nil {
		t.Fatal(err)
	}
	st, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 1 {
		t.Errorf("entries = %d, want 1", st.Entries)
	}
	if st.Hits != 1 {
		t.Errorf("hits = %d, want 1", st.Hits)
	}
}
