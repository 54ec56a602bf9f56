package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"budgetviz/internal/core"
	ports "budgetviz/internal/sheets"
)

var (
	_ ports.TableReader = (*Store)(nil)
	_ ports.Describer   = (*Store)(nil)
)

// Store serves a fixed values matrix, header row first.
type Store struct {
	mu     sync.Mutex
	source string
	values [][]string
	err    error
}

func New(values [][]string) *Store {
	return &Store{source: "memory", values: copyMatrix(values)}
}

// NewFromFile seeds the store from a CSV file. A missing or malformed file is
// not reported here; it surfaces as a load error on the first read, exactly as
// a missing workbook would.
func NewFromFile(path string) *Store {
	s := &Store{source: path}
	values, err := readCSV(path)
	if err != nil {
		s.err = err
		return s
	}
	s.values = values
	return s
}

// Replace swaps the served values, e.g. after the seed file was edited.
func (s *Store) Replace(values [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = copyMatrix(values)
	s.err = nil
}

func (s *Store) Source() string { return s.source }

// ReadTable returns the stored matrix as a table.
func (s *Store) ReadTable(_ context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Table{}, &core.LoadError{Source: s.source, Err: s.err}
	}
	return core.NewTable(s.values), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	values, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}

func copyMatrix(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}
