package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadTextLinesUTF8(t *testing.T) {
	lines, err := ReadTextLines(bytes.NewReader([]byte("first\nsecond\nthird")))
	if err != nil {
		t.Fatalf("ReadTextLines returned error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"first", "second", "third"}) {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestReadTextLinesNormalizesCRLF(t *testing.T) {
	lines, err := ReadTextLines(bytes.NewReader([]byte("first\r\nsecond\r\n")))
	if err != nil {
		t.Fatalf("ReadTextLines returned error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"first", "second", ""}) {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestReadTextLinesWindows1252Fallback(t *testing.T) {
	// 0xE9 is é in windows-1252 but not valid UTF-8 on its own.
	input := []byte("Caf\xe9|North\nline two")
	lines, err := ReadTextLines(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTextLines returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "Café|North" {
		t.Errorf("expected windows-1252 decoding, got %v", lines)
	}
}

func TestReadTextFileLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("a\nb"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	lines, err := ReadTextFileLines(path)
	if err != nil {
		t.Fatalf("ReadTextFileLines returned error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"a", "b"}) {
		t.Errorf("unexpected lines: %v", lines)
	}

	if _, err := ReadTextFileLines(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
