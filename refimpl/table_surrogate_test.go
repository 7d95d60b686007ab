package refimpl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	header := "density,pressure,sound_speed_sq,bulk_modulus,temperature\n"
	if err := os.WriteFile(path, []byte(header+rows), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadTableSurrogate_SortsByDensity(t *testing.T) {
	path := writeTable(t, "10,100,10,1000,300\n1,10,1,100,200\n")
	ts, err := LoadTableSurrogate(path)
	if err != nil {
		t.Fatalf("LoadTableSurrogate: %v", err)
	}
	if ts.rows[0].Density != 1 || ts.rows[1].Density != 10 {
		t.Errorf("rows not sorted by density: %v", ts.rows)
	}
}

func TestLoadTableSurrogate_RejectsMalformedRow(t *testing.T) {
	path := writeTable(t, "1,2,3\n")
	if _, err := LoadTableSurrogate(path); err == nil {
		t.Fatal("expected an error for a short row")
	}
}

func TestLoadTableSurrogate_RejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	os.WriteFile(path, []byte("density,pressure,sound_speed_sq,bulk_modulus,temperature\n"), 0o644)
	if _, err := LoadTableSurrogate(path); err == nil {
		t.Fatal("expected an error for a header-only file")
	}
}

func TestTableSurrogate_EvalInterpolatesBetweenRows(t *testing.T) {
	path := writeTable(t, "0,0,0,0,0\n10,100,10,1000,300\n")
	ts, err := LoadTableSurrogate(path)
	if err != nil {
		t.Fatalf("LoadTableSurrogate: %v", err)
	}

	inputs := [][]float64{{5}}
	outputs := [][]float64{make([]float64, 1), make([]float64, 1), make([]float64, 1), make([]float64, 1)}
	if err := ts.Eval(context.Background(), 1, inputs, outputs); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if outputs[0][0] != 50 {
		t.Errorf("interpolated pressure = %v, want 50", outputs[0][0])
	}
}

func TestTableSurrogate_EvalClampsBelowAndAboveRange(t *testing.T) {
	path := writeTable(t, "0,0,0,0,0\n10,100,10,1000,300\n")
	ts, _ := LoadTableSurrogate(path)

	inputs := [][]float64{{-5, 50}}
	outputs := [][]float64{make([]float64, 2), make([]float64, 2), make([]float64, 2), make([]float64, 2)}
	if err := ts.Eval(context.Background(), 2, inputs, outputs); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if outputs[0][0] != 0 {
		t.Errorf("below-range pressure = %v, want clamped to 0", outputs[0][0])
	}
	if outputs[0][1] != 100 {
		t.Errorf("above-range pressure = %v, want clamped to 100", outputs[0][1])
	}
}

func TestTableSurrogate_EvalOnEmptyTableErrors(t *testing.T) {
	ts := &TableSurrogate{}
	outputs := [][]float64{{0}, {0}, {0}, {0}}
	if err := ts.Eval(context.Background(), 1, [][]float64{{1}}, outputs); err == nil {
		t.Fatal("expected an error evaluating an empty table")
	}
}
