package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// fileFormat is the on-disk layout of a FileStore.
type fileFormat struct {
	Records []Record `json:"records"`
}

// FileStore keeps records in a JSON file. Every change rewrites the file.
type FileStore struct {
	path string

	mu      sync.Mutex
	records map[string]Record
}

// OpenFileStore loads the store at path. A missing file is an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, records: make(map[string]Record)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	for _, rec := range f.Records {
		s.records[rec.Player] = rec
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(player string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[player]
	if !ok {
		return Record{Player: player}, nil
	}
	return rec, nil
}

func (s *FileStore) Submit(res Result) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.records[res.Player]
	rec, improved := merge(prev, res)
	s.records[res.Player] = rec
	if err := s.save(); err != nil {
		s.records[res.Player] = prev
		return prev, false, err
	}
	return rec, improved, nil
}

func (s *FileStore) Top(n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return top(slices.Collect(maps.Values(s.records)), n), nil
}

// save writes the file through a temporary file so a crash never leaves a
// truncated store behind. Callers hold s.mu.
func (s *FileStore) save() error {
	f := fileFormat{Records: slices.Collect(maps.Values(s.records))}
	rank(f.Records)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create records dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
