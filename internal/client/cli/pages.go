package cli

import (
	"context"

	"github.com/dmitrijs2005/billed/internal/client/controllers"
	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/router"
	"github.com/dmitrijs2005/billed/internal/client/views"
)

func (a *App) registerPages() {
	a.router.Register(router.RouteBills, router.IconWindow, a.mountBills)
	a.router.Register(router.RouteNewBill, router.IconMail, a.mountNewBill)
}

// billLister is nil while offline so the page shows no bills.
func (a *App) billLister() controllers.BillLister {
	if a.api == nil || a.Mode() == ModeOffline {
		return nil
	}
	return a.api
}

func (a *App) billWriter() controllers.BillWriter {
	if a.api == nil || a.Mode() == ModeOffline {
		return nil
	}
	return a.api
}

func (a *App) mountBills(ctx context.Context, _ models.Session) {
	a.bills = controllers.NewBills(a.billLister(), a.term, a.router.Navigate, a.log)
	a.rows = nil

	a.term.SetContent(a.renderer.Render(views.KindLoading, nil))

	rows, err := a.bills.GetBills(ctx)
	if err != nil {
		a.log.Error(ctx, "bills page", "err", err)
		a.term.SetContent(a.renderer.Render(views.KindError, err.Error()))
		return
	}
	a.rows = rows
	a.term.SetContent(a.renderer.Render(views.KindBills, rows))
}

func (a *App) mountNewBill(ctx context.Context, _ models.Session) {
	a.newBill = controllers.NewNewBill(a.billWriter(), a.sessions, a.term, a.term, a.router.Navigate, a.log)
	a.form = models.FormValues{}
	a.term.Select("")
	a.renderNewBill()
}

func (a *App) renderNewBill() {
	page := views.NewBillPage{Form: a.form}
	if a.newBill != nil {
		page.FileName = a.newBill.Staged().FileName
	}
	if page.FileName == "" {
		page.FileName = a.term.FileValue()
	}
	a.term.SetContent(a.renderer.Render(views.KindNewBill, page))
}
