// Package app is the client-side state layer: a root App owning the session,
// category and list stores, all backed by a Remote data service.
package app

import (
	"log/slog"
	"time"
)

// App is the root controller. Front ends hold one App and reach the stores
// through its accessors.
type App struct {
	remote     Remote
	logger     *slog.Logger
	session    *SessionStore
	categories *CategoryStore
	lists      *ListStore
}

type Option func(*options)

type options struct {
	logger  *slog.Logger
	confirm Confirmer
	now     func() time.Time
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConfirmer sets the prompt used before archiving or deleting a list.
// Without one, destructive actions proceed unprompted.
func WithConfirmer(c Confirmer) Option {
	return func(o *options) { o.confirm = c }
}

// WithClock overrides the time source used for week_of.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(remote Remote, opts ...Option) *App {
	o := options{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{remote: remote, logger: o.logger}
	a.session = newSessionStore(remote, o.logger)
	a.categories = newCategoryStore(remote, a.session, o.logger)
	a.lists = newListStore(remote, a.session, a.categories, o.confirm, o.now, o.logger)

	a.session.onHouseholdChange = func() {
		a.categories.clearCache()
		a.lists.clearCache()
	}
	a.categories.onReassign = a.lists.renameCategory
	return a
}

func (a *App) Session() *SessionStore     { return a.session }
func (a *App) Categories() *CategoryStore { return a.categories }
func (a *App) Lists() *ListStore          { return a.lists }

// IsLoading reports whether any store has an operation in flight.
func (a *App) IsLoading() bool {
	return a.session.IsLoading() || a.categories.IsLoading() || a.lists.IsLoading()
}

// Reset drops all cached state. The remote session, if any, is untouched.
func (a *App) Reset() {
	a.session.reset()
	a.categories.reset()
	a.lists.reset()
}
