package client

import (
	"context"

	"github.com/dmitrijs2005/billed/internal/client/models"
)

// Client is the backend contract the controllers consume.
type Client interface {
	ListBills(ctx context.Context) ([]models.Bill, error)
	CreateBillAttachment(ctx context.Context, upload models.AttachmentUpload) (models.Attachment, error)
	UpdateBill(ctx context.Context, draft models.Draft) (models.Bill, error)
	Ping(ctx context.Context) error
	Close() error
}

// TokenSource yields the bearer token attached to outgoing calls. An empty
// token means the call goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
