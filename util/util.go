// Package util holds small file helpers shared by the generator and the verifier.
package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// WriteJSON writes v as indented JSON to filename in a single write.
func WriteJSON(filename string, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", filename, err)
	}
	bz = append(bz, '\n')
	return os.WriteFile(filename, bz, 0o644)
}

// ReadJSON unmarshals the JSON document in filename into v.
func ReadJSON(filename string, v any) error {
	bz, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}
	if err := json.Unmarshal(bz, v); err != nil {
		return fmt.Errorf("error unmarshaling %s: %w", filename, err)
	}
	return nil
}

// RemoveIfExists removes filename. A missing file is not an error.
func RemoveIfExists(filename string) error {
	err := os.Remove(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
