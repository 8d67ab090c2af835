package store

import (
	"path/filepath"
	"testing"
)

func TestRead_Missing(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer s.Close()

	value, ok, err := s.Read("backline:artists")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if ok {
		t.Error("Read of missing key should report not found")
	}
	if value != "" {
		t.Errorf("value = %q, want empty", value)
	}
}

func TestWriteAndRead(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer s.Close()

	doc := `[{"id":"T001","title":"Sunset Dreams"}]`
	if err := s.Write("backline:tracks", doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	value, ok, err := s.Read("backline:tracks")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !ok {
		t.Fatal("Read should find the written key")
	}
	if value != doc {
		t.Errorf("value = %q, want %q", value, doc)
	}
}

func TestWrite_ReplacesWholeDocument(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer s.Close()

	if err := s.Write("backline:artists", `[{"id":"A001"}]`); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := s.Write("backline:artists", `[]`); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	value, _, err := s.Read("backline:artists")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if value != `[]` {
		t.Errorf("value = %q, want %q (whole-document replace)", value, `[]`)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer s.Close()

	if err := s.Write("backline:artists", `["a"]`); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write("backline:tracks", `["t"]`); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	artists, _, _ := s.Read("backline:artists")
	tracks, _, _ := s.Read("backline:tracks")
	if artists != `["a"]` || tracks != `["t"]` {
		t.Errorf("got artists=%q tracks=%q, keys should not interfere", artists, tracks)
	}
}

func TestOpenAt_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "backline.db")

	s, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	if err := s.Write("backline:tracks", `[{"id":"T001"}]`); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := OpenAt(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	value, ok, err := s2.Read("backline:tracks")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !ok || value != `[{"id":"T001"}]` {
		t.Errorf("value = %q ok=%v, want persisted document after reopen", value, ok)
	}
}
