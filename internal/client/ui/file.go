package ui

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// LocalFile describes a file on disk as a selected file.
func LocalFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("select %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("select %s: is a directory", path)
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}
