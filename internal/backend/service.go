// Package backend is the remote data service: account sessions plus
// household-scoped CRUD over lists, items and categories. Every table
// operation checks that the caller belongs to the owning household; rows in
// other households behave as if they do not exist.
package backend

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/auth"
	"github.com/dukerupert/basket/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSessionTTL = 30 * 24 * time.Hour

// Mailer delivers invitation codes.
type Mailer interface {
	Configured() bool
	SendInvitation(ctx context.Context, toEmail, code, householdName, inviterEmail string) error
}

// Receipts stores receipt images and returns their URLs.
type Receipts interface {
	Configured() bool
	Upload(ctx context.Context, householdID, listID, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Notifier is told about every committed change so connected household
// members can re-fetch.
type Notifier interface {
	Notify(householdID, entity, action, id string)
}

type Config struct {
	JWTSecret  string
	Issuer     string
	SessionTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type Service struct {
	users       *store.UserStore
	sessions    *store.SessionStore
	households  *store.HouseholdStore
	categories  *store.CategoryStore
	groceries   *store.GroceryStore
	invitations *store.InvitationStore

	tokens     *auth.Tokens
	sessionTTL time.Duration
	bcryptCost int

	mailer   Mailer
	receipts Receipts
	notifier Notifier
	logger   *slog.Logger
}

type Option func(*Service)

func WithMailer(m Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

func WithReceipts(r Receipts) Option {
	return func(s *Service) { s.receipts = r }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(db *sql.DB, cfg Config, opts ...Option) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "basket"
	}
	s := &Service{
		users:       store.NewUserStore(db),
		sessions:    store.NewSessionStore(db),
		households:  store.NewHouseholdStore(db),
		categories:  store.NewCategoryStore(db),
		groceries:   store.NewGroceryStore(db),
		invitations: store.NewInvitationStore(db),
		tokens:      auth.NewTokens(cfg.JWTSecret, cfg.Issuer),
		sessionTTL:  cfg.SessionTTL,
		bcryptCost:  cfg.BcryptCost,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "backend")
	return s
}

func (s *Service) notify(householdID, entity, action, id string) {
	if s.notifier != nil {
		s.notifier.Notify(householdID, entity, action, id)
	}
}

// caller returns the authenticated identity attached to ctx.
func caller(ctx context.Context, op string) (auth.AuthContext, error) {
	ac, ok := auth.FromContext(ctx)
	if !ok || ac.UserID == "" {
		return auth.AuthContext{}, apperr.Auth(op, "not signed in")
	}
	return ac, nil
}

// requireMember returns the caller if they belong to householdID. Callers
// outside the household get NotFound so foreign ids are indistinguishable
// from missing ones.
func (s *Service) requireMember(ctx context.Context, op, householdID string) (auth.AuthContext, error) {
	ac, err := caller(ctx, op)
	if err != nil {
		return ac, err
	}
	m, err := s.households.GetMember(ctx, householdID, ac.UserID)
	if err != nil {
		return ac, apperr.Remote(op, err)
	}
	if m == nil {
		return ac, apperr.NotFound(op, "household not found")
	}
	return ac, nil
}

// PurgeExpired removes expired sessions and invitations.
func (s *Service) PurgeExpired(ctx context.Context) error {
	sessions, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	invitations, err := s.invitations.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if sessions > 0 || invitations > 0 {
		s.logger.Info("purged expired rows", "sessions", sessions, "invitations", invitations)
	}
	return nil
}
