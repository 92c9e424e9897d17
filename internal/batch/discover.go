// Package batch finds the images belonging to a base name, gates overwrites
// behind a confirmation, and runs edge reconstruction over each file in turn.
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrDirectoryNotFound is returned when the target folder is missing or not a directory.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrNoFiles is returned when neither the base nor the hover image exists.
	ErrNoFiles = errors.New("no matching files found")
)

const (
	hoverSuffix = "-hover"
	testSuffix  = "_test"
	pngExt      = ".png"
)

// Candidates returns the base and hover image paths for name in dir.
func Candidates(dir, name string) []string {
	return []string{
		filepath.Join(dir, name+pngExt),
		filepath.Join(dir, name+hoverSuffix+pngExt),
	}
}

// Discover returns the candidates that exist as regular files, base image first.
func Discover(dir, name string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	var found []string
	for _, path := range Candidates(dir, name) {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			found = append(found, path)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w for %q in %s", ErrNoFiles, name, dir)
	}
	return found, nil
}

// TestCopyPath returns the path of the _test copy for an image, e.g.
// shark-hover.png -> shark-hover_test.png.
func TestCopyPath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), stem+testSuffix+pngExt)
}

// MakeTestCopies copies each image next to itself with a _test suffix and
// returns the copy paths in the same order. Existing copies are overwritten.
func MakeTestCopies(paths []string) ([]string, error) {
	copies := make([]string, 0, len(paths))
	for _, path := range paths {
		dst := TestCopyPath(path)
		if err := copyFile(path, dst); err != nil {
			return copies, fmt.Errorf("failed to create test copy of %s: %w", filepath.Base(path), err)
		}
		copies = append(copies, dst)
	}
	return copies, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
