package handlers

import (
	"errors"
	"io/fs"
	"os"
)

// removeFile deletes path, treating an already missing file as success.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
