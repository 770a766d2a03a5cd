package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "reports", "out.md")
	if err := SafeWriteFile(p, []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("content = %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": 2\n}"
	if string(b) != want {
		t.Fatalf("got %q want %q", b, want)
	}
}
