// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package learn is the persistence boundary for keywords confirmed through
// user corrections. The analysis engine only ever reads from it; writing
// happens when a correction UI confirms where a value really was.
package learn

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"invoice-scan/internal/locale"
)

// WeightedPhrase is one learned keyword with its scoring weight.
type WeightedPhrase struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

// Store is the read side consumed by the analyzer at the start of an
// analysis.
type Store interface {
	Keywords(field string) ([]WeightedPhrase, error)
}

// Recorder is the write side used by the learning module after a
// confirmed correction.
type Recorder interface {
	Record(field, phrase string, weight float64) error
}

// FileStore is a YAML-file-backed keyword store.
type FileStore struct {
	path string

	mu   sync.Mutex
	data map[string][]WeightedPhrase
}

// NewFileStore opens (or lazily creates) the store at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: make(map[string][]WeightedPhrase)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword store: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse keyword store %s: %w", path, err)
	}
	return s, nil
}

// Keywords returns the learned phrases for one field type.
func (s *FileStore) Keywords(field string) ([]WeightedPhrase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	phrases := s.data[field]
	out := make([]WeightedPhrase, len(phrases))
	copy(out, phrases)
	return out, nil
}

// Record stores a confirmed phrase, normalized the same way the matchers
// normalize, replacing any previous weight for it.
func (s *FileStore) Record(field, phrase string, weight float64) error {
	normalized := locale.Normalize(phrase)
	if normalized == "" {
		return fmt.Errorf("empty phrase for field %s", field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i, existing := range s.data[field] {
		if existing.Phrase == normalized {
			s.data[field][i].Weight = weight
			replaced = true
			break
		}
	}
	if !replaced {
		s.data[field] = append(s.data[field], WeightedPhrase{Phrase: normalized, Weight: weight})
	}

	return s.save()
}

func (s *FileStore) save() error {
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode keyword store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write keyword store: %w", err)
	}
	return nil
}
