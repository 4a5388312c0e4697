package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/billed/internal/client/client"
	"github.com/dmitrijs2005/billed/internal/client/config"
	"github.com/dmitrijs2005/billed/internal/client/controllers"
	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/router"
	"github.com/dmitrijs2005/billed/internal/client/session"
	"github.com/dmitrijs2005/billed/internal/client/ui"
	"github.com/dmitrijs2005/billed/internal/client/views"
	"github.com/dmitrijs2005/billed/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// sessionStore is what the host needs from the session: the read side the
// core uses plus the writes done by login and logout.
type sessionStore interface {
	session.Reader
	Save(ctx context.Context, sess models.Session, token string) error
	Clear(ctx context.Context) error
}

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	sessions sessionStore
	api      client.Client

	term     *ui.Terminal
	renderer views.Renderer
	router   *router.Router
	reader   *bufio.Reader
	out      io.Writer

	bills   *controllers.Bills
	newBill *controllers.NewBill
	rows    []models.DisplayBill
	form    models.FormValues

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens the session database, connects the configured transport and
// wires the pages.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	sessions := session.NewStore(db)

	api, err := newAPIClient(ctx, c, sessions)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, log, sessions, api, in, out)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, sessions sessionStore, api client.Client, in io.Reader, out io.Writer) *App {
	term := ui.NewTerminal(out)
	a := &App{
		config:   c,
		log:      log,
		sessions: sessions,
		api:      api,
		term:     term,
		renderer: views.MustNew(),
		reader:   bufio.NewReader(in),
		out:      out,
		mode:     ModeOnline,
	}
	a.router = router.New(term, term, a.renderer, sessions, log)
	a.registerPages()
	return a
}

// newAPIClient picks the transport and, when a bucket is configured, sends
// receipts straight to object storage.
func newAPIClient(ctx context.Context, c *config.Config, tokens client.TokenSource) (client.Client, error) {
	var base client.Client
	switch c.Transport {
	case config.TransportHTTP:
		base = client.NewHTTPClient(c.ServerEndpointAddr, tokens, c.RequestTimeout)
	default:
		g, err := client.NewGRPCClient(c.ServerEndpointAddr, tokens, c.RequestTimeout)
		if err != nil {
			return nil, err
		}
		base = g
	}

	if !c.S3.Enabled() {
		return base, nil
	}

	s3c, err := client.NewS3Attachments(ctx, base, client.S3Config{
		Endpoint:  c.S3.Endpoint,
		Region:    c.S3.Region,
		Bucket:    c.S3.Bucket,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
		URLExpiry: c.S3.URLExpiry,
	})
	if err != nil {
		_ = base.Close()
		return nil, err
	}
	return s3c, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(ctx)
	cancel()

	if err != nil {
		a.log.Debug(ctx, "ping failed", "err", err)
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the backend every interval until ctx is
// done, flipping between online and offline mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) routes() []string {
	rs := a.router.Routes()
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.sessions.Load(ctx)
	return err == nil
}

func (a *App) getStatus(ctx context.Context) string {
	s := ""
	if sess, err := a.sessions.Load(ctx); err == nil && sess.Email != "" {
		s = sess.Email + " "
	}
	s += string(a.Mode())
	if r := a.router.Current(); r != "" {
		s += " " + string(r)
	}
	return fmt.Sprintf("(%s)", s)
}

// Run checks connectivity, shows the bills of a recorded session and runs
// the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	printlnFn("Billed CLI (type 'help' for commands)")

	a.checkOnline(ctx)

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	if a.isLoggedIn(ctx) {
		a.router.Navigate(ctx, router.RouteBills)
	} else {
		printlnFn("No session recorded, use 'login' first.")
	}

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
	return nil
}

func (a *App) close() {
	if a.newBill != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		if err := a.newBill.AwaitAttachment(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			a.log.Debug(ctx, "pending upload at exit", "err", err)
		}
		cancel()
	}
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
