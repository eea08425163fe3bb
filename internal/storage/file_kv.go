package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fileDocument struct {
	Version int               `json:"version"`
	Items   map[string]string `json:"items"`
}

// FileKV stores every item in one JSON document that is rewritten on each change.
type FileKV struct {
	mu   sync.Mutex
	path string
	doc  *fileDocument
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (s *FileKV) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.doc = &fileDocument{Version: 1, Items: make(map[string]string)}
	return s.save()
}

func (s *FileKV) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &fileDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w: %v", ErrCorruptData, err)
	}
	if doc.Items == nil {
		doc.Items = make(map[string]string)
	}
	s.doc = doc
	return nil
}

func (s *FileKV) Close() error {
	return nil
}

// save writes to a sibling temp file and renames it over the document.
func (s *FileKV) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *FileKV) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return "", false, ErrNotLoaded
	}
	v, ok := s.doc.Items[key]
	return v, ok, nil
}

func (s *FileKV) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Items[key] = value
	return s.save()
}

func (s *FileKV) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	if _, ok := s.doc.Items[key]; !ok {
		return nil
	}
	delete(s.doc.Items, key)
	return s.save()
}

// Location returns the path of the JSON document.
func (s *FileKV) Location() string {
	return s.path
}
