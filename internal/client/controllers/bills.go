package controllers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/router"
	"github.com/dmitrijs2005/billed/internal/client/ui"
	"github.com/dmitrijs2005/billed/internal/client/views"
	"github.com/dmitrijs2005/billed/internal/logging"
)

// BillLister is the part of the backend the bills page reads.
type BillLister interface {
	ListBills(ctx context.Context) ([]models.Bill, error)
}

type Bills struct {
	store    BillLister
	preview  ui.ReceiptPreviewSurface
	navigate router.NavigateFunc
	log      logging.Logger
}

// NewBills builds the bills page controller. A nil store means the backend
// is unavailable and the page lists nothing.
func NewBills(store BillLister, preview ui.ReceiptPreviewSurface, navigate router.NavigateFunc, log logging.Logger) *Bills {
	return &Bills{
		store:    store,
		preview:  preview,
		navigate: navigate,
		log:      log.With("component", "bills"),
	}
}

// GetBills returns the bills most recent first, ready for display. Dates
// that do not parse are logged and shown as received.
func (b *Bills) GetBills(ctx context.Context) ([]models.DisplayBill, error) {
	if b.store == nil {
		return []models.DisplayBill{}, nil
	}

	bills, err := b.store.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	sorted := slices.Clone(bills)
	slices.SortStableFunc(sorted, func(x, y models.Bill) int {
		return strings.Compare(y.Date, x.Date)
	})

	out := make([]models.DisplayBill, 0, len(sorted))
	for _, bill := range sorted {
		display, err := views.FormatDate(bill.Date)
		if err != nil {
			b.log.Warn(ctx, "bill date not formatted", "id", bill.ID, "date", bill.Date, "err", err)
			display = bill.Date
		}
		out = append(out, models.DisplayBill{
			Bill:        bill,
			DisplayDate: display,
			StatusLabel: views.FormatStatus(bill.Status),
		})
	}
	return out, nil
}

// HandleClickIconEye opens the receipt of the clicked row.
func (b *Bills) HandleClickIconEye(icon ui.EyeIcon) {
	b.preview.Show(icon.BillURL)
}

// HandleClickNewBill opens the new-bill form.
func (b *Bills) HandleClickNewBill(ctx context.Context) {
	b.navigate(ctx, router.RouteNewBill)
}
