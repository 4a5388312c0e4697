// Package ui holds the surfaces the controllers act on. Controllers only see
// the small capability interfaces below; the terminal host implements them
// all with Terminal.
package ui

import (
	"io"

	"github.com/dmitrijs2005/billed/internal/client/models"
)

// Container is the single visible view region.
type Container interface {
	SetContent(content string)
}

// NavIcons owns the active-icon markers of the navigation bar. SetActive("")
// clears every marker.
type NavIcons interface {
	SetActive(id string)
	Active() string
}

type Alerter interface {
	Alert(msg string)
}

// FileInput is the receipt file selector of the new-bill form.
type FileInput interface {
	Clear()
}

// ReceiptPreviewSurface is the modal showing a bill's receipt.
type ReceiptPreviewSurface interface {
	Show(url string)
	Hide()
}

// EyeIcon is the receipt icon of one row of the bills list.
type EyeIcon struct {
	BillURL string
}

// File is one selected file. Open may be called more than once.
type File struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FileChangeEvent is raised when the file selection changes. Value is the
// path as reported by the input, which may differ from the file name.
type FileChangeEvent struct {
	Files []File
	Value string
}

// SubmitEvent carries the form fields at submit time.
type SubmitEvent struct {
	Form models.FormValues

	prevented bool
}

func (e *SubmitEvent) PreventDefault()        { e.prevented = true }
func (e *SubmitEvent) DefaultPrevented() bool { return e.prevented }
