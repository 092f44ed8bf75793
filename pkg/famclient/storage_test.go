package famclient

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(filepath.Join(dir, "state"))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Get(keyFamilyCode); ok {
		t.Error("fresh storage should have no family code")
	}

	if err := s.Set(keyFamilyCode, "ANDERSSON2026"); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Get(keyFamilyCode)
	if !ok || got != "ANDERSSON2026" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	if err := s.Remove(keyFamilyCode); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(keyFamilyCode); ok {
		t.Error("value should be gone after Remove")
	}
}

func TestFileStorage_RemoveMissingIsNotAnError(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("never_set"); err != nil {
		t.Errorf("removing an absent key: %v", err)
	}
}

func TestFileStorage_CreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := NewFileStorage(dir); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("state dir not created: %v", err)
	}
}
