package image

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// SavePNG encodes an 8-bit BGRA matrix as a 4-channel PNG at path. The data
// is written to a temporary file in the same directory and renamed over path,
// so a failed write leaves any existing file untouched. An existing file's
// permission bits are kept.
func SavePNG(path string, bgra gocv.Mat) error {
	if bgra.Type() != gocv.MatTypeCV8UC4 {
		return fmt.Errorf("expected 8-bit BGRA matrix, got type %d", int(bgra.Type()))
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, bgra)
	if err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	defer buf.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(buf.GetBytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush png: %w", err)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
