// Package router maps route keys to pages and keeps the navigation icons in
// step with the page shown.
package router

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/session"
	"github.com/dmitrijs2005/billed/internal/client/ui"
	"github.com/dmitrijs2005/billed/internal/client/views"
	"github.com/dmitrijs2005/billed/internal/logging"
)

type Route string

const (
	RouteBills    Route = "#employee/bills"
	RouteNewBill  Route = "#employee/bill/new"
	RouteNotFound Route = "#404"
)

const (
	IconWindow = "icon-window"
	IconMail   = "icon-mail"
)

// NavigateFunc is what controllers are given to move between pages.
type NavigateFunc func(ctx context.Context, route Route)

// MountFunc renders a page into the container and binds its controller.
type MountFunc func(ctx context.Context, sess models.Session)

type entry struct {
	icon  string
	mount MountFunc
}

// Router is driven from a single goroutine.
type Router struct {
	container ui.Container
	icons     ui.NavIcons
	renderer  views.Renderer
	sessions  session.Reader
	log       logging.Logger

	routes  map[Route]entry
	current Route
}

func New(container ui.Container, icons ui.NavIcons, renderer views.Renderer, sessions session.Reader, log logging.Logger) *Router {
	return &Router{
		container: container,
		icons:     icons,
		renderer:  renderer,
		sessions:  sessions,
		log:       log.With("component", "router"),
		routes:    make(map[Route]entry),
	}
}

// Register binds a route to its navigation icon and page. Registering a
// route twice replaces it.
func (r *Router) Register(route Route, icon string, mount MountFunc) {
	r.routes[route] = entry{icon: icon, mount: mount}
}

// Navigate shows the page of route. An unknown route shows the not-found
// page with no icon active.
func (r *Router) Navigate(ctx context.Context, route Route) {
	e, ok := r.routes[route]
	if !ok || e.mount == nil {
		r.log.Warn(ctx, "unknown route", "route", route)
		r.icons.SetActive("")
		r.container.SetContent(r.renderer.Render(views.KindNotFound, string(route)))
		r.current = RouteNotFound
		return
	}

	var sess models.Session
	if r.sessions != nil {
		s, err := r.sessions.Load(ctx)
		switch {
		case errors.Is(err, session.ErrNoSession):
			r.log.Info(ctx, "navigating without a session", "route", route)
		case err != nil:
			r.log.Warn(ctx, "session unreadable", "route", route, "err", err)
		default:
			sess = s
		}
	}

	r.icons.SetActive(e.icon)
	r.current = route
	r.log.Debug(ctx, "navigate", "route", route, "icon", e.icon)
	e.mount(ctx, sess)
}

// Current is the last route shown, RouteNotFound after a miss and "" before
// the first navigation.
func (r *Router) Current() Route {
	return r.current
}

// Routes lists the registered route keys in sorted order.
func (r *Router) Routes() []Route {
	return slices.Sorted(maps.Keys(r.routes))
}
