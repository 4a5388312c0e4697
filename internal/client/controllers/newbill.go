package controllers

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/billed/internal/client/client"
	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/router"
	"github.com/dmitrijs2005/billed/internal/client/session"
	"github.com/dmitrijs2005/billed/internal/client/ui"
	"github.com/dmitrijs2005/billed/internal/logging"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPct = 20

	unsupportedFileAlert = "Seuls les fichiers .jpg, .jpeg et .png sont acceptés"
)

var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// BillWriter is the part of the backend the new-bill form writes to.
type BillWriter interface {
	CreateBillAttachment(ctx context.Context, upload models.AttachmentUpload) (models.Attachment, error)
	UpdateBill(ctx context.Context, draft models.Draft) (models.Bill, error)
}

// StagedAttachment is the receipt accepted by the backend for the bill
// being written.
type StagedAttachment struct {
	FileName string
	FileURL  string
	BillID   string
}

type NewBill struct {
	store    BillWriter
	sessions session.Reader
	alerter  ui.Alerter
	input    ui.FileInput
	navigate router.NavigateFunc
	log      logging.Logger

	mu         sync.Mutex
	staged     StagedAttachment
	generation uint64
	pending    *errgroup.Group
}

func NewNewBill(
	store BillWriter,
	sessions session.Reader,
	alerter ui.Alerter,
	input ui.FileInput,
	navigate router.NavigateFunc,
	log logging.Logger,
) *NewBill {
	return &NewBill{
		store:    store,
		sessions: sessions,
		alerter:  alerter,
		input:    input,
		navigate: navigate,
		log:      log.With("component", "newbill"),
	}
}

// declaredName is the last path element of the selection, whichever
// separator the input reports with.
func declaredName(ev ui.FileChangeEvent) string {
	name := ev.Value
	if name == "" && len(ev.Files) > 0 {
		name = ev.Files[0].Name
	}
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// HandleChangeFile validates the selected receipt and stages it with the
// backend in the background. A refused file is reported to the user, the
// input is reset and a *ValidationError is returned.
func (c *NewBill) HandleChangeFile(ctx context.Context, ev ui.FileChangeEvent) error {
	if len(ev.Files) == 0 {
		c.log.Debug(ctx, "file selection cleared")
		c.reset()
		return nil
	}

	file := ev.Files[0]
	name := declaredName(ev)
	ext := extension(name)

	if _, ok := allowedExtensions[ext]; !ok {
		c.log.Info(ctx, "receipt rejected", "file", name, "ext", ext)
		c.alerter.Alert(unsupportedFileAlert)
		c.input.Clear()
		c.reset()
		return &ValidationError{FileName: name, Ext: ext}
	}

	email := c.email(ctx)

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.staged = StagedAttachment{}
	g := new(errgroup.Group)
	c.pending = g
	c.mu.Unlock()

	g.Go(func() error {
		att, err := c.upload(ctx, file, name, email)
		if err != nil {
			c.log.Error(ctx, "receipt upload failed", "file", name, "err", err)
			return err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			c.log.Debug(ctx, "stale receipt upload dropped", "file", name)
			return nil
		}
		c.staged = StagedAttachment{FileName: name, FileURL: att.FileURL, BillID: att.Key}
		return nil
	})
	return nil
}

func (c *NewBill) upload(ctx context.Context, file ui.File, name, email string) (models.Attachment, error) {
	if c.store == nil {
		return models.Attachment{}, client.ErrUnavailable
	}

	var content io.Reader
	if file.Open != nil {
		rc, err := file.Open()
		if err != nil {
			return models.Attachment{}, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		content = rc
	}

	return c.store.CreateBillAttachment(ctx, models.AttachmentUpload{
		FileName:    name,
		ContentType: file.ContentType,
		Content:     content,
		Email:       email,
	})
}

func (c *NewBill) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.staged = StagedAttachment{}
	c.pending = nil
}

// AwaitAttachment blocks until the latest receipt upload has finished and
// returns its error, if any. When ctx ends first it returns ctx.Err() and the
// upload carries on under the context given to HandleChangeFile; its result
// is still staged once it completes.
func (c *NewBill) AwaitAttachment(ctx context.Context) error {
	c.mu.Lock()
	g := c.pending
	c.mu.Unlock()
	if g == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Staged returns the receipt the next submission will reference.
func (c *NewBill) Staged() StagedAttachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staged
}

func (c *NewBill) email(ctx context.Context) string {
	if c.sessions == nil {
		return ""
	}
	sess, err := c.sessions.Load(ctx)
	if err != nil {
		c.log.Warn(ctx, "no session email", "err", err)
		return ""
	}
	return sess.Email
}

func (c *NewBill) parseNumber(ctx context.Context, field, raw string) models.Number {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		c.log.Warn(ctx, "non-numeric field submitted", "field", field, "value", raw)
		return models.NaN()
	}
	return models.Number(f)
}

func parsePct(raw string) int {
	pct, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || pct == 0 {
		return defaultPct
	}
	return pct
}

// Draft assembles the bill sent on submit from the form and the staged
// receipt.
func (c *NewBill) Draft(ctx context.Context, form models.FormValues) models.Draft {
	staged := c.Staged()
	return models.Draft{
		ID:         staged.BillID,
		Email:      c.email(ctx),
		Type:       form.Type,
		Name:       form.Name,
		Amount:     c.parseNumber(ctx, "amount", form.Amount),
		Date:       form.Date,
		VAT:        c.parseNumber(ctx, "vat", form.VAT),
		Pct:        parsePct(form.Pct),
		Commentary: form.Commentary,
		FileURL:    staged.FileURL,
		FileName:   staged.FileName,
		Status:     models.StatusPending,
	}
}

// HandleSubmit waits for the receipt upload, sends the bill once and
// returns to the bills list. On failure the error is logged and returned;
// the form stays as it is.
func (c *NewBill) HandleSubmit(ctx context.Context, ev *ui.SubmitEvent) error {
	ev.PreventDefault()

	if err := c.AwaitAttachment(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn(ctx, "submitting without receipt", "err", err)
	}

	draft := c.Draft(ctx, ev.Form)

	if c.store == nil {
		c.log.Error(ctx, "update bill failed", "err", client.ErrUnavailable)
		return fmt.Errorf("update bill: %w", client.ErrUnavailable)
	}

	if _, err := c.store.UpdateBill(ctx, draft); err != nil {
		c.log.Error(ctx, "update bill failed", "id", draft.ID, "err", err)
		return fmt.Errorf("update bill: %w", err)
	}

	c.log.Info(ctx, "bill submitted", "id", draft.ID, "name", draft.Name)
	c.reset()
	c.navigate(ctx, router.RouteBills)
	return nil
}
