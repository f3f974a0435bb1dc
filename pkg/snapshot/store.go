package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/usestring/layj/pkg/schema"
)

// Extension is the file extension of snapshot files.
const Extension = ".snapshot"

// ErrTypeChanged is matched by errors reporting that a freshly inferred type
// no longer matches its accepted snapshot.
var ErrTypeChanged = errors.New("type changed since last accepted snapshot")

// TypeChangedError reports drift for one named type.
type TypeChangedError struct {
	Name string
	Path string
}

func (e *TypeChangedError) Error() string {
	return fmt.Sprintf("new type doesn't match snapshot for type %s", e.Name)
}

// Is makes errors.Is(err, ErrTypeChanged) succeed.
func (e *TypeChangedError) Is(target error) bool {
	return target == ErrTypeChanged
}

// Check compares a freshly folded schema against the accepted one.
func Check(name string, accepted, fresh schema.Schema) error {
	if schema.Equal(fresh, accepted) {
		return nil
	}
	return &TypeChangedError{Name: name}
}

// Store reads and writes one snapshot file per type name in a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the snapshot file path for a type name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+Extension)
}

// Load reads the snapshot for name. The boolean is false when none exists.
func (s *Store) Load(name string) (schema.Schema, bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot %s: %w", s.Path(name), err)
	}

	sc, err := Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.Path(name), err)
	}
	return sc, true, nil
}

// Verify compares fresh against the stored snapshot for name. A missing
// snapshot always verifies.
func (s *Store) Verify(name string, fresh schema.Schema) error {
	accepted, ok, err := s.Load(name)
	if err != nil || !ok {
		return err
	}
	if err := Check(name, accepted, fresh); err != nil {
		var changed *TypeChangedError
		if errors.As(err, &changed) {
			changed.Path = s.Path(name)
		}
		return err
	}
	return nil
}

// Save overwrites the snapshot for name, creating the directory if needed.
func (s *Store) Save(name string, sc schema.Schema) error {
	data, err := Marshal(sc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", s.Path(name), err)
	}
	return nil
}
