// Package store implements the offline data store façade: an append-only
// sink for physics-fallback samples, used to grow an offline training set.
package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Store is the append-only record sink spec §4.E requires. Append is
// invoked exactly for the physics-fallback samples within each partition,
// in partition order and positional order within each partition (spec
// §5); implementations must not reorder.
type Store interface {
	Append(nSamples, nIn, nOut int, inputs, outputs [][]float64) error
	io.Closer
}

// Null is the no-op store used when ENABLE_DB (WithStore) is not
// configured. It is the default so the pipeline never needs a nil check.
type Null struct{}

func (Null) Append(int, int, int, [][]float64, [][]float64) error { return nil }
func (Null) Close() error                                         { return nil }

// FileStore appends one record per sample as a single line of
// n_in+n_out scalar values, matching the "single append-only record file"
// contract (spec §6). Concatenation order within a record is inputs then
// outputs, feature-major (all of input 0 across the line is not
// interleaved — it is one value per feature per sample).
type FileStore struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

// NewFileStore opens (creating/appending) the record file at path.
func NewFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &FileStore{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes nSamples records. inputs has length nIn, outputs has
// length nOut; every slice has length nSamples.
func (s *FileStore) Append(nSamples, nIn, nOut int, inputs, outputs [][]float64) error {
	if len(inputs) != nIn || len(outputs) != nOut {
		return fmt.Errorf("store: append: expected %d inputs/%d outputs, got %d/%d", nIn, nOut, len(inputs), len(outputs))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var line strings.Builder
	for i := 0; i < nSamples; i++ {
		line.Reset()
		for d := 0; d < nIn; d++ {
			if d > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(strconv.FormatFloat(inputs[d][i], 'g', -1, 64))
		}
		for d := 0; d < nOut; d++ {
			line.WriteByte(' ')
			line.WriteString(strconv.FormatFloat(outputs[d][i], 'g', -1, 64))
		}
		line.WriteByte('\n')
		if _, err := s.w.WriteString(line.String()); err != nil {
			return fmt.Errorf("store: write record: %w", err)
		}
	}
	return nil
}

// Close flushes buffered records and closes the underlying file.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("store: flush: %w", err)
	}
	return s.f.Close()
}
