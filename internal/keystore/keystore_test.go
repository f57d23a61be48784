package keystore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "keys"))
	if err := s.Save("10.0.0.5", "ABC123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	key, found, err := s.Load("10.0.0.5")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found || key != "ABC123" {
		t.Fatalf("load = (%q, %v), want (ABC123, true)", key, found)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := New(t.TempDir())
	key, found, err := s.Load("192.168.1.20")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found || key != "" {
		t.Fatalf("load = (%q, %v), want empty and not found", key, found)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "keys")
	s := New(dir)
	if err := s.Save("10.0.0.5", "K"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "10.0.0.5")); err != nil {
		t.Fatalf("key file missing: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := New(t.TempDir())
	for _, k := range []string{"first", "second"} {
		if err := s.Save("tv", k); err != nil {
			t.Fatalf("save %s: %v", k, err)
		}
	}
	key, _, err := s.Load("tv")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if key != "second" {
		t.Fatalf("key = %q, want second", key)
	}
}
