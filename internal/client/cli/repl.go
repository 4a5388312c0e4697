package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	routes() []string
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Bills(ctx context.Context) error
	NewBill(ctx context.Context) error
	Show(ctx context.Context, n string) error
	Hide(ctx context.Context) error
	File(ctx context.Context, path string) error
	Fill(ctx context.Context) error
	Submit(ctx context.Context) error
	Go(ctx context.Context, route string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
//
//	Not logged in:
//	  help            show available commands
//	  login           record email, role and optional token
//	  go ROUTE        navigate to a route key
//	  exit | quit     leave the program
//
//	Logged in, additionally:
//	  bills           list my bills
//	  show N          open the receipt of the N-th bill
//	  hide            close the receipt
//	  new             open the new-bill form
//	  file PATH       attach a receipt (jpg, jpeg, png)
//	  fill            type the form fields
//	  submit          send the bill
//	  logout          forget the session
//
// Errors returned by handlers are not fatal; handlers log their own errors.
// The same reader serves the handlers' prompts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("billed %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], ""
		if len(parts) > 1 {
			arg = strings.Join(parts[1:], " ")
		}

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: bills, show N, hide, new, file PATH, fill, submit, go ROUTE, logout, exit")
			} else {
				printlnFn("Available commands: login, go ROUTE, exit")
			}
			printlnFn("Routes:", strings.Join(a.routes(), ", "))

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "bills", "l":
			_ = a.Bills(ctx)

		case "new":
			_ = a.NewBill(ctx)

		case "show":
			if arg == "" {
				printlnFn("Usage: show N")
				continue
			}
			_ = a.Show(ctx, arg)

		case "hide":
			_ = a.Hide(ctx)

		case "file":
			if arg == "" {
				printlnFn("Usage: file PATH")
				continue
			}
			_ = a.File(ctx, arg)

		case "fill":
			_ = a.Fill(ctx)

		case "submit":
			_ = a.Submit(ctx)

		case "go":
			if arg == "" {
				printlnFn("Usage: go ROUTE")
				continue
			}
			_ = a.Go(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
