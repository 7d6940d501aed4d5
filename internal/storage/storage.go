// Package storage provides flat-file JSON document persistence.
// Every mutation rewrites the whole document; there is no schema
// versioning and no atomic rename.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads the JSON document at path into v. A missing file leaves v
// untouched so the caller's in-memory default stands and is not an
// error. A document that cannot be read or parsed also leaves v
// untouched, but the error is returned so the caller can log it and
// continue with the default rather than failing startup.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Save serializes v with two-space indent and overwrites the file at
// path, creating parent directories as needed. The error is returned so
// callers can decide to log and continue.
func Save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
