package timewindow

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile encodes the window collection to path. Nothing is written when
// encoding fails, so a failed run leaves no partial output behind.
func WriteFile(path string, windows []TimeWindow) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".twd-*")
	if err != nil {
		return fmt.Errorf("create timewindow file: %w", err)
	}
	tmp := f.Name()
	if err := Encode(f, windows); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write timewindow file: %w", err)
	}
	return nil
}

// ReadFile decodes the window collection at path.
func ReadFile(path string) ([]TimeWindow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open timewindow file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
