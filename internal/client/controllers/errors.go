package controllers

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFile matches every rejected receipt selection.
var ErrUnsupportedFile = errors.New("unsupported receipt file")

// ValidationError is a receipt selection refused before any network call.
type ValidationError struct {
	FileName string
	Ext      string
}

func (e *ValidationError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported receipt file %q: no extension", e.FileName)
	}
	return fmt.Sprintf("unsupported receipt file %q: extension %q", e.FileName, e.Ext)
}

func (e *ValidationError) Is(target error) bool { return target == ErrUnsupportedFile }
