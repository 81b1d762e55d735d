package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSetGet(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "haloengine-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	s, err := Open(filepath.Join(tmpDir, "db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Set([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := s.Get([]byte("k1"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be found")
	}
	if string(v) != "v1" {
		t.Errorf("got %q, want %q", v, "v1")
	}

	_, ok, err = s.Get([]byte("missing"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing key to not be found")
	}
}

func TestStoreForEachPrefix(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "haloengine-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	s, err := Open(filepath.Join(tmpDir, "db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	entries := map[string]string{
		"tb:1": "a",
		"tb:2": "b",
		"bk:1": "c",
	}
	for k, v := range entries {
		if err := s.Set([]byte(k), []byte(v)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	seen := map[string]string{}
	err = s.ForEach([]byte("tb:"), func(key, value []byte) error {
		seen[string(key)] = string(value)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("got %d entries under prefix tb:, want 2", len(seen))
	}
	if seen["tb:1"] != "a" || seen["tb:2"] != "b" {
		t.Errorf("unexpected entries: %v", seen)
	}
}

func TestDataDir(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}
