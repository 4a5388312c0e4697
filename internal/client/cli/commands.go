package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/router"
	"github.com/dmitrijs2005/billed/internal/client/ui"
)

var (
	errWrongPage = errors.New("command not available on this page")
	errNoSuchRow = errors.New("no such bill")
)

// Login records who is using the client. Issuing tokens is the backend's
// business; an already issued one can be pasted here.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return a.fail(ctx, "login", err)
	}
	userType, err := GetSimpleText(a.reader, "-Enter user type [Employee]", a.out)
	if err != nil {
		return a.fail(ctx, "login", err)
	}
	if userType == "" {
		userType = string(models.UserTypeEmployee)
	}
	token, err := GetSecret(a.reader, "-Enter token (optional)", a.out)
	if err != nil {
		return a.fail(ctx, "login", err)
	}

	sess := models.Session{Type: models.UserType(userType), Email: email}
	if err := a.sessions.Save(ctx, sess, token); err != nil {
		return a.fail(ctx, "login", err)
	}

	a.log.Info(ctx, "logged in", "email", email, "type", userType)
	a.router.Navigate(ctx, router.RouteBills)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return a.fail(ctx, "logout", err)
	}
	a.rows = nil
	printlnFn("Logged out")
	return nil
}

func (a *App) Bills(ctx context.Context) error {
	a.router.Navigate(ctx, router.RouteBills)
	return nil
}

// NewBill is the "Nouvelle note de frais" button of the bills page.
func (a *App) NewBill(ctx context.Context) error {
	if a.router.Current() == router.RouteBills && a.bills != nil {
		a.bills.HandleClickNewBill(ctx)
		return nil
	}
	a.router.Navigate(ctx, router.RouteNewBill)
	return nil
}

// Show opens the receipt of the n-th listed bill (1-based).
func (a *App) Show(ctx context.Context, arg string) error {
	if a.router.Current() != router.RouteBills || a.bills == nil {
		return a.fail(ctx, "show", errWrongPage)
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.rows) {
		return a.fail(ctx, "show", fmt.Errorf("%w: %q", errNoSuchRow, arg))
	}
	a.bills.HandleClickIconEye(ui.EyeIcon{BillURL: a.rows[n-1].FileURL})
	return nil
}

func (a *App) Hide(context.Context) error {
	a.term.Hide()
	return nil
}

// File selects the receipt of the new-bill form.
func (a *App) File(ctx context.Context, path string) error {
	if a.router.Current() != router.RouteNewBill || a.newBill == nil {
		return a.fail(ctx, "file", errWrongPage)
	}

	f, err := ui.LocalFile(path)
	if err != nil {
		return a.fail(ctx, "file", err)
	}

	a.term.Select(path)
	if err := a.newBill.HandleChangeFile(ctx, ui.FileChangeEvent{Files: []ui.File{f}, Value: path}); err != nil {
		return err
	}
	a.renderNewBill()
	return nil
}

// Fill prompts for every field of the new-bill form.
func (a *App) Fill(ctx context.Context) error {
	if a.router.Current() != router.RouteNewBill || a.newBill == nil {
		return a.fail(ctx, "fill", errWrongPage)
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"-Type de dépense", &a.form.Type},
		{"-Nom de la dépense", &a.form.Name},
		{"-Date (AAAA-MM-JJ)", &a.form.Date},
		{"-Montant TTC", &a.form.Amount},
		{"-TVA", &a.form.VAT},
		{"-TVA % [20]", &a.form.Pct},
	}
	for _, f := range fields {
		v, err := GetSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return a.fail(ctx, "fill", err)
		}
		*f.dst = v
	}

	commentary, err := GetMultiline(a.reader, "-Commentaire", a.out)
	if err != nil {
		return a.fail(ctx, "fill", err)
	}
	a.form.Commentary = commentary

	a.renderNewBill()
	return nil
}

// Submit sends the form. On failure the form stays on screen as typed.
func (a *App) Submit(ctx context.Context) error {
	if a.router.Current() != router.RouteNewBill || a.newBill == nil {
		return a.fail(ctx, "submit", errWrongPage)
	}
	return a.newBill.HandleSubmit(ctx, &ui.SubmitEvent{Form: a.form})
}

func (a *App) Go(ctx context.Context, route string) error {
	a.router.Navigate(ctx, router.Route(route))
	return nil
}

func (a *App) fail(ctx context.Context, cmd string, err error) error {
	a.log.Error(ctx, "command failed", "cmd", cmd, "err", err)
	printlnFn("Error:", err.Error())
	return err
}
