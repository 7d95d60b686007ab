package refimpl

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// TableRow is one row of a CSV-backed lookup table: a density sample and
// the four outputs measured at it.
type TableRow struct {
	Density                                          float64
	Pressure, SoundSpeedSq, BulkModulus, Temperature float64
}

// TableSurrogate approximates the four outputs by linear interpolation
// over density against a sorted table of (density -> outputs) rows,
// loaded from a CSV file. This is the same bracket-then-lerp idiom the
// teacher's MFU database uses for latency lookups, applied to an EOS
// surrogate's inputs instead.
type TableSurrogate struct {
	rows []TableRow
}

// LoadTableSurrogate reads a CSV file with header
// "density,pressure,sound_speed_sq,bulk_modulus,temperature" and returns
// a TableSurrogate sorted by density.
func LoadTableSurrogate(path string) (*TableSurrogate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refimpl: open surrogate table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("refimpl: read surrogate table: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("refimpl: surrogate table empty or missing header")
	}

	rows := make([]TableRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 5 {
			return nil, fmt.Errorf("refimpl: surrogate table row %d: expected 5 columns, got %d", i+2, len(rec))
		}
		vals := make([]float64, 5)
		for c, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("refimpl: surrogate table row %d col %d: %w", i+2, c, err)
			}
			vals[c] = v
		}
		rows = append(rows, TableRow{
			Density: vals[0], Pressure: vals[1], SoundSpeedSq: vals[2], BulkModulus: vals[3], Temperature: vals[4],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Density < rows[j].Density })
	return &TableSurrogate{rows: rows}, nil
}

// bracketIndex returns the indices of the floor and ceiling rows whose
// Density brackets target.
func (t *TableSurrogate) bracketIndex(target float64) (lo, hi int) {
	n := len(t.rows)
	if target <= t.rows[0].Density {
		return 0, 0
	}
	if target >= t.rows[n-1].Density {
		return n - 1, n - 1
	}
	hi = sort.Search(n, func(i int) bool { return t.rows[i].Density >= target })
	if t.rows[hi].Density == target {
		return hi, hi
	}
	return hi - 1, hi
}

func lerp(a, b, frac float64) float64 { return a + (b-a)*frac }

// Eval implements collab.Surrogate by linearly interpolating each sample's
// density against the loaded table.
func (t *TableSurrogate) Eval(_ context.Context, n int, inputs [][]float64, outputs [][]float64) error {
	if len(t.rows) == 0 {
		return fmt.Errorf("refimpl: surrogate table is empty")
	}
	density := inputs[0]
	for i := 0; i < n; i++ {
		lo, hi := t.bracketIndex(density[i])
		frac := 0.0
		if hi != lo {
			frac = (density[i] - t.rows[lo].Density) / (t.rows[hi].Density - t.rows[lo].Density)
		}
		outputs[0][i] = lerp(t.rows[lo].Pressure, t.rows[hi].Pressure, frac)
		outputs[1][i] = lerp(t.rows[lo].SoundSpeedSq, t.rows[hi].SoundSpeedSq, frac)
		outputs[2][i] = lerp(t.rows[lo].BulkModulus, t.rows[hi].BulkModulus, frac)
		outputs[3][i] = lerp(t.rows[lo].Temperature, t.rows[hi].Temperature, frac)
	}
	return nil
}
