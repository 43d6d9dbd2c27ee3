// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package localstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNoIdentity = errors.New("no saved identity")

// Identity is the rater remembered between runs
type Identity struct {
	RaterID   string `yaml:"rater_id"`
	RaterName string `yaml:"rater_name"`
}

// Store keeps the identity in one YAML file
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Default stores the identity under the user config directory
func Default() *Store {
	return NewStore(filepath.Join(configDir(), "audio-rating", "identity.yaml"))
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

func (s *Store) Path() string {
	return s.path
}

// Save writes both fields, replacing any earlier identity
func (s *Store) Save(id Identity) error {
	if id.RaterID == "" || id.RaterName == "" {
		return fmt.Errorf("save identity: rater id and name are required")
	}
	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

// Load returns ErrNoIdentity unless both fields were saved
func (s *Store) Load() (Identity, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Identity{}, ErrNoIdentity
	}
	if err != nil {
		return Identity{}, fmt.Errorf("read identity: %w", err)
	}

	var id Identity
	if err := yaml.Unmarshal(data, &id); err != nil {
		return Identity{}, fmt.Errorf("parse identity %s: %w", s.path, err)
	}
	if id.RaterID == "" || id.RaterName == "" {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

// Clear forgets the identity. Clearing twice is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove identity: %w", err)
	}
	return nil
}
