package backend

import (
	"context"
	"net/mail"
	"strings"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/auth"
	"github.com/dukerupert/basket/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}

// SignUp creates an account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (*model.AuthSession, error) {
	const op = "sign up"
	email, ok := normalizeEmail(email)
	if !ok {
		return nil, apperr.Auth(op, "a valid email address is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Auth(op, "password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if existing != nil {
		return nil, apperr.Auth(op, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.logger.Info("user signed up", "user_id", user.ID)
	return s.openSession(ctx, op, user)
}

// SignIn checks credentials and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*model.AuthSession, error) {
	const op = "sign in"
	email = strings.ToLower(strings.TrimSpace(email))

	user, hash, err := s.users.GetCredentials(ctx, email)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, apperr.Auth(op, "invalid email or password")
	}
	return s.openSession(ctx, op, user)
}

func (s *Service) openSession(ctx context.Context, op string, user *model.User) (*model.AuthSession, error) {
	sess, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	token, err := s.tokens.Sign(user.ID, user.Email, sess.ID, sess.ExpiresAt)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	return &model.AuthSession{AccessToken: token, ExpiresAt: sess.ExpiresAt, User: *user}, nil
}

// Authenticate verifies an access token and that its session is still open.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.AuthContext, error) {
	const op = "authenticate"
	if token == "" {
		return auth.AuthContext{}, apperr.Auth(op, "not signed in")
	}
	ac, err := s.tokens.Parse(token)
	if err != nil {
		return auth.AuthContext{}, apperr.Auth(op, "session expired")
	}
	sess, err := s.sessions.GetByID(ctx, ac.SessionID)
	if err != nil {
		return auth.AuthContext{}, apperr.Remote(op, err)
	}
	if sess == nil || sess.UserID != ac.UserID {
		return auth.AuthContext{}, apperr.Auth(op, "session expired")
	}
	return ac, nil
}

// Session returns the session behind token, for restoring a client.
func (s *Service) Session(ctx context.Context, token string) (*model.AuthSession, error) {
	const op = "get session"
	ac, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetByID(ctx, ac.SessionID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if sess == nil {
		return nil, apperr.Auth(op, "session expired")
	}
	user, err := s.users.GetByID(ctx, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if user == nil {
		return nil, apperr.Auth(op, "account no longer exists")
	}
	return &model.AuthSession{AccessToken: token, ExpiresAt: sess.ExpiresAt, User: *user}, nil
}

// SignOut closes the caller's session.
func (s *Service) SignOut(ctx context.Context) error {
	const op = "sign out"
	ac, err := caller(ctx, op)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, ac.SessionID); err != nil {
		return apperr.Remote(op, err)
	}
	return nil
}
