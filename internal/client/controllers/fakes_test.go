package controllers

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/router"
	"github.com/dmitrijs2005/billed/internal/client/session"
	"github.com/dmitrijs2005/billed/internal/client/ui"
)

type fakeStore struct {
	mu sync.Mutex

	bills   []models.Bill
	listErr error

	attachment models.Attachment
	attachErr  error
	// release, when set, holds CreateBillAttachment until closed
	release chan struct{}
	uploads []models.AttachmentUpload
	content []string

	updateErr error
	drafts    []models.Draft
}

func (f *fakeStore) ListBills(context.Context) ([]models.Bill, error) {
	return f.bills, f.listErr
}

func (f *fakeStore) CreateBillAttachment(ctx context.Context, upload models.AttachmentUpload) (models.Attachment, error) {
	var body string
	if upload.Content != nil {
		b, _ := io.ReadAll(upload.Content)
		body = string(b)
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, upload)
	f.content = append(f.content, body)
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return models.Attachment{}, ctx.Err()
		}
	}
	return f.attachment, f.attachErr
}

func (f *fakeStore) UpdateBill(_ context.Context, draft models.Draft) (models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, draft)
	if f.updateErr != nil {
		return models.Bill{}, f.updateErr
	}
	return models.Bill{ID: draft.ID, Name: draft.Name, Status: draft.Status}, nil
}

func (f *fakeStore) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

type fakeSessions struct {
	session.Reader
	sess models.Session
	err  error
}

func (f fakeSessions) Load(context.Context) (models.Session, error) { return f.sess, f.err }

type fakeAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeAlerter) Alert(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeAlerter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

type fakeInput struct{ cleared int }

func (f *fakeInput) Clear() { f.cleared++ }

type fakePreview struct {
	shown  []string
	url    string
	hidden bool
}

func (f *fakePreview) Show(url string) {
	f.shown = append(f.shown, url)
	f.url = url
	f.hidden = false
}

func (f *fakePreview) Hide() { f.hidden = true }

type navRecorder struct {
	mu     sync.Mutex
	routes []router.Route
}

func (n *navRecorder) navigate(_ context.Context, r router.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, r)
}

func (n *navRecorder) all() []router.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]router.Route(nil), n.routes...)
}

func memFile(name, body string) ui.File {
	return ui.File{
		Name:        name,
		ContentType: "image/jpeg",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func selection(path, body string) ui.FileChangeEvent {
	name := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		name = path[i+1:]
	}
	return ui.FileChangeEvent{Files: []ui.File{memFile(name, body)}, Value: path}
}
