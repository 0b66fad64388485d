package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore reads and writes JSON documents under a data directory. Every
// write is idempotent-by-overwrite keyed on its path, so an interrupted run
// can always be resumed.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Path joins the store root with the given path elements.
func (s *FileStore) Path(parts ...string) string {
	return filepath.Join(append([]string{s.root}, parts...)...)
}

// Exists reports whether a file exists under the store root.
func (s *FileStore) Exists(parts ...string) bool {
	info, err := os.Stat(s.Path(parts...))
	return err == nil && !info.IsDir()
}

// ReadJSON decodes the file at the given path into v.
func (s *FileStore) ReadJSON(v any, parts ...string) error {
	path := s.Path(parts...)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes v as pretty-printed JSON, creating parent directories.
func (s *FileStore) WriteJSON(v any, parts ...string) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Join(parts...), err)
	}
	return s.WriteRaw(data, parts...)
}

// WriteRaw persists raw bytes verbatim, re-indenting them when they are
// valid JSON so cached payloads stay diffable.
func (s *FileStore) WriteRaw(data []byte, parts ...string) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "\t"); err == nil {
		data = pretty.Bytes()
	}

	path := s.Path(parts...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadRaw returns the raw contents of a file under the store root.
func (s *FileStore) ReadRaw(parts ...string) ([]byte, error) {
	path := s.Path(parts...)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
