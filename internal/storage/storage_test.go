package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeySlugifiesFilename(t *testing.T) {
	got := Key("jobs/42", "Site Photo (1).JPG")
	want := "jobs/42/site-photo-1.jpg"
	if got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
}

func TestUploadListPublicURL(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	key := Key("jobs/7", "before.jpg")
	if err := s.Upload([]byte("fake-jpeg"), key); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := s.Upload([]byte("fake-jpeg-2"), Key("jobs/7", "after.jpg")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := s.Upload([]byte("other"), Key("jobs/8", "x.jpg")); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	keys, err := s.List("jobs/7")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("List returned %d keys, want 2: %v", len(keys), keys)
	}
	for _, k := range keys {
		if filepath.Dir(k) != "jobs/7" {
			t.Errorf("key %q outside prefix", k)
		}
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), "jobs", "7", "before.jpg"))
	if err != nil {
		t.Fatalf("read uploaded file: %v", err)
	}
	if string(data) != "fake-jpeg" {
		t.Errorf("file content = %q", data)
	}

	if url := s.PublicURL(key); url != "/uploads/jobs/7/before.jpg" {
		t.Errorf("PublicURL = %q", url)
	}
}

func TestUploadRejectsTraversal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, key := range []string{"", "../escape.jpg", "/etc/passwd", "jobs/../../x"} {
		if err := s.Upload([]byte("x"), key); err == nil {
			t.Errorf("Upload(%q) succeeded, want error", key)
		}
	}
}
