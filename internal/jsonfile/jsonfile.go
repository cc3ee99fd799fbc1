// Package jsonfile reads and writes the small JSON documents the launcher
// persists next to the deployment tree.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/email-service/launcher/internal/constants"
)

// DecodeError reports a file that was read but does not hold valid JSON for
// the requested type.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Exists reports whether something exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}

// Create writes v to a new file at path as indented JSON.
// It never replaces an existing file: if path already exists the returned
// error satisfies errors.Is(err, os.ErrExist). Parent directories are not created.
func Create(path string, v any) error {
	data, err := json.MarshalIndent(v, "", constants.JSONIndent)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Read decodes the JSON document at path into v.
// Decoding failures are returned as *DecodeError; I/O failures are wrapped as-is.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}
