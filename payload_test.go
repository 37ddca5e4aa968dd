package icap

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.txt")
	if err := os.WriteFile(path, []byte("file contents"), 0644); err != nil {
		t.Fatal(err)
	}

	payload, err := OpenFile(path)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	defer payload.Close()

	if payload.Size() != int64(len("file contents")) {
		t.Fatalf("Size is %d", payload.Size())
	}
	if ct := payload.ContentType(); ct[:10] != "text/plain" {
		t.Fatalf("Content type is %s", ct)
	}
	data, err := io.ReadAll(payload)
	if err != nil || string(data) != "file contents" {
		t.Fatalf("Data is %q (err: %v)", data, err)
	}
}

func TestOpenFileUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.weird-extension")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	payload, err := OpenFile(path)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	defer payload.Close()
	if payload.ContentType() != "application/octet-stream" {
		t.Fatalf("Content type is %s", payload.ContentType())
	}
}

func TestOpenFileMissing(t *testing.T) {
	if _, err := OpenFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("No error for missing file")
	}
}

func TestBytesPayload(t *testing.T) {
	p := NewBytesPayload([]byte("abc"), "text/plain")
	if p.Size() != 3 || p.ContentType() != "text/plain" {
		t.Fatalf("Payload is %+v", p)
	}
	data, _ := io.ReadAll(p)
	if string(data) != "abc" {
		t.Fatalf("Data is %q", data)
	}
}
