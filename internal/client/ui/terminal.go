package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	defaultWidth = 80
	minModal     = 24
)

// getSize is a test seam over term.GetSize.
var getSize = term.GetSize

// Terminal renders every surface to a writer. It is safe for concurrent use:
// upload results may alert from another goroutine.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	fd  int

	content   string
	active    string
	fileValue string
	modalURL  string
	modalOpen bool
}

// NewTerminal writes to out. When out is a terminal its width sizes the
// receipt modal.
func NewTerminal(out io.Writer) *Terminal {
	fd := -1
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Terminal{out: out, fd: fd}
}

func (t *Terminal) width() int {
	if t.fd < 0 {
		return defaultWidth
	}
	w, _, err := getSize(t.fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func (t *Terminal) SetContent(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.content = content
	fmt.Fprintln(t.out, strings.Repeat("-", t.width()))
	fmt.Fprint(t.out, content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(t.out)
	}
}

// Content returns what was last rendered.
func (t *Terminal) Content() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.content
}

func (t *Terminal) SetActive(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = id
}

func (t *Terminal) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Terminal) Alert(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "(!) %s\n", msg)
}

// Select records the path typed for the file input.
func (t *Terminal) Select(value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fileValue = value
}

// FileValue is the current value of the file input.
func (t *Terminal) FileValue() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fileValue
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fileValue = ""
}

// Show opens the receipt modal at half the terminal width.
func (t *Terminal) Show(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modalURL = url
	t.modalOpen = true

	w := max(t.width()/2, minModal)
	body := url
	if body == "" {
		body = "(aucun justificatif)"
	}

	fmt.Fprintf(t.out, "+%s+\n", strings.Repeat("-", w-2))
	fmt.Fprintf(t.out, "| %-*s |\n", w-4, "Justificatif")
	for _, line := range wrap(body, w-4) {
		fmt.Fprintf(t.out, "| %-*s |\n", w-4, line)
	}
	fmt.Fprintf(t.out, "+%s+\n", strings.Repeat("-", w-2))
}

func (t *Terminal) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modalOpen = false
}

// Modal reports the receipt modal state.
func (t *Terminal) Modal() (url string, open bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.modalURL, t.modalOpen
}

func wrap(s string, width int) []string {
	r := []rune(s)
	var lines []string
	for len(r) > width {
		lines = append(lines, string(r[:width]))
		r = r[width:]
	}
	return append(lines, string(r))
}
