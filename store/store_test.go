package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNull_AppendAndCloseAreNoOps(t *testing.T) {
	var n Null
	if err := n.Append(3, 2, 4, nil, nil); err != nil {
		t.Errorf("Null.Append returned error: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("Null.Close returned error: %v", err)
	}
}

func TestFileStore_AppendWritesOneLinePerSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	inputs := [][]float64{{1, 2}, {10, 20}}
	outputs := [][]float64{{100, 200}, {0, 0}, {0, 0}, {0, 0}}
	if err := fs.Append(2, 2, 4, inputs, outputs); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), string(data))
	}
	if lines[0] != "1 10 100 0 0 0" {
		t.Errorf("line 0 = %q, want %q", lines[0], "1 10 100 0 0 0")
	}
	if lines[1] != "2 20 200 0 0 0" {
		t.Errorf("line 1 = %q, want %q", lines[1], "2 20 200 0 0 0")
	}
}

func TestFileStore_AppendsAcrossMultipleCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer fs.Close()

	if err := fs.Append(1, 1, 1, [][]float64{{1}}, [][]float64{{2}}); err != nil {
		t.Fatalf("Append 1: %v", err)
	}
	if err := fs.Append(1, 1, 1, [][]float64{{3}}, [][]float64{{4}}); err != nil {
		t.Fatalf("Append 2: %v", err)
	}
	fs.w.Flush()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 || lines[0] != "1 2" || lines[1] != "3 4" {
		t.Errorf("got lines %v, want [1 2, 3 4]", lines)
	}
}

func TestFileStore_AppendRejectsFeatureCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer fs.Close()

	err = fs.Append(1, 2, 1, [][]float64{{1}}, [][]float64{{2}})
	if err == nil {
		t.Fatal("expected error for mismatched input feature count")
	}
}

func TestFileStore_ReopenAppendsRatherThanTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	fs1, _ := NewFileStore(path)
	fs1.Append(1, 1, 1, [][]float64{{1}}, [][]float64{{2}})
	fs1.Close()

	fs2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore (reopen): %v", err)
	}
	fs2.Append(1, 1, 1, [][]float64{{3}}, [][]float64{{4}})
	fs2.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (reopen should append, not truncate): %q", len(lines), string(data))
	}
}
