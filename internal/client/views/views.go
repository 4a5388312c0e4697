// Package views renders page payloads to text. Templates are embedded and
// carry no logic beyond iteration and formatting.
package views

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dmitrijs2005/billed/internal/client/models"
)

type Kind string

const (
	KindBills    Kind = "bills"
	KindNewBill  Kind = "newbill"
	KindError    Kind = "error"
	KindLoading  Kind = "loading"
	KindNotFound Kind = "notfound"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// NewBillPage is the payload of KindNewBill.
type NewBillPage struct {
	FileName string
	Form     models.FormValues
}

// Renderer maps a view kind and its payload to the text shown in the
// container.
type Renderer interface {
	Render(kind Kind, payload any) string
}

type TemplateRenderer struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"receipt": func(url string) string {
		if url == "" {
			return "-"
		}
		return "[oeil]"
	},
	"money": func(f float64) string { return fmt.Sprintf("%.2f €", f) },
}

// New parses the embedded templates.
func New() (*TemplateRenderer, error) {
	t, err := template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: t}, nil
}

// MustNew is New for package-level initialisation; the templates are
// embedded so a parse failure is a build defect.
func MustNew() *TemplateRenderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render never fails: a template error is rendered in place of the page.
func (r *TemplateRenderer) Render(kind Kind, payload any) string {
	if kind == KindNewBill && payload == nil {
		payload = NewBillPage{}
	}
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, string(kind)+".tmpl", payload); err != nil {
		return fmt.Sprintf("render %s: %v\n", kind, err)
	}
	return b.String()
}
