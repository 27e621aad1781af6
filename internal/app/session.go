package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
)

// SessionStore holds the signed-in user and the household their lists
// belong to.
type SessionStore struct {
	state
	remote Remote
	logger *slog.Logger

	user        *model.User
	householdID string
	memberships []model.HouseholdMember

	// onHouseholdChange runs after the active household changes or the
	// user signs out, so dependent caches can be dropped.
	onHouseholdChange func()
}

func newSessionStore(remote Remote, logger *slog.Logger) *SessionStore {
	return &SessionStore{remote: remote, logger: logger.With("component", "session_store")}
}

func (s *SessionStore) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// HouseholdID returns the active household, or "" if none has resolved yet.
func (s *SessionStore) HouseholdID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.householdID
}

// Memberships returns the user's memberships, most recently joined first.
func (s *SessionStore) Memberships() []model.HouseholdMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.memberships)
}

func (s *SessionStore) setHousehold(id string, memberships []model.HouseholdMember) {
	s.mu.Lock()
	changed := s.householdID != id
	s.householdID = id
	s.memberships = memberships
	hook := s.onHouseholdChange
	s.mu.Unlock()
	if changed && hook != nil {
		hook()
	}
}

func (s *SessionStore) clear() {
	s.mu.Lock()
	s.user = nil
	s.householdID = ""
	s.memberships = nil
	hook := s.onHouseholdChange
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (s *SessionStore) reset() {
	s.mu.Lock()
	s.user = nil
	s.householdID = ""
	s.memberships = nil
	s.pending = 0
	s.err = ""
	s.mu.Unlock()
}

// SignUp creates the account and provisions its first household.
func (s *SessionStore) SignUp(ctx context.Context, email, password string) error {
	return s.run(s.logger, "sign up", func() error {
		sess, err := s.remote.SignUp(ctx, email, password)
		if err != nil {
			return err
		}
		s.setUser(&sess.User)
		h, err := s.remote.CreateHousehold(ctx, model.DefaultHouseholdName)
		if err != nil {
			return err
		}
		return s.refreshMemberships(ctx, h.ID)
	})
}

// SignIn authenticates and makes sure the user has a household.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	return s.run(s.logger, "sign in", func() error {
		sess, err := s.remote.SignIn(ctx, email, password)
		if err != nil {
			return err
		}
		s.setUser(&sess.User)
		_, err = s.ensureHousehold(ctx)
		return err
	})
}

// SignOut ends the session. Local state is cleared even if the remote call
// fails.
func (s *SessionStore) SignOut(ctx context.Context) error {
	return s.run(s.logger, "sign out", func() error {
		err := s.remote.SignOut(ctx)
		s.clear()
		return err
	})
}

// CheckSession restores a persisted session if one is still valid and
// applies the same household self-healing as SignIn. It reports whether a
// user is signed in afterwards.
func (s *SessionStore) CheckSession(ctx context.Context) (bool, error) {
	var signedIn bool
	err := s.run(s.logger, "check session", func() error {
		sess, err := s.remote.GetSession(ctx)
		if err != nil {
			return err
		}
		if sess == nil {
			if s.IsAuthenticated() {
				s.clear()
			}
			return nil
		}
		s.setUser(&sess.User)
		signedIn = true
		_, err = s.ensureHousehold(ctx)
		return err
	})
	return signedIn, err
}

func (s *SessionStore) setUser(u *model.User) {
	s.mu.Lock()
	prev := s.user
	user := *u
	s.user = &user
	s.mu.Unlock()
	if prev != nil && prev.ID != u.ID {
		s.setHousehold("", nil)
	}
}

// refreshMemberships reloads memberships and activates preferred when it is
// one of them, else the most recent.
func (s *SessionStore) refreshMemberships(ctx context.Context, preferred string) error {
	memberships, err := s.remote.HouseholdMemberships(ctx)
	if err != nil {
		return err
	}
	id := ""
	for _, m := range memberships {
		if m.HouseholdID == preferred {
			id = preferred
			break
		}
	}
	if id == "" && len(memberships) > 0 {
		id = memberships[0].HouseholdID
	}
	s.setHousehold(id, memberships)
	return nil
}

// ensureHousehold resolves the active household, creating "My Household"
// for users who have none.
func (s *SessionStore) ensureHousehold(ctx context.Context) (string, error) {
	if err := s.refreshMemberships(ctx, s.HouseholdID()); err != nil {
		return "", err
	}
	if id := s.HouseholdID(); id != "" {
		return id, nil
	}
	s.logger.Info("provisioning household for user without one")
	h, err := s.remote.CreateHousehold(ctx, model.DefaultHouseholdName)
	if err != nil {
		return "", err
	}
	if err := s.refreshMemberships(ctx, h.ID); err != nil {
		return "", err
	}
	return h.ID, nil
}

// ResolveHousehold returns the active household, provisioning one if the
// signed-in user has none.
func (s *SessionStore) ResolveHousehold(ctx context.Context) (string, error) {
	if !s.IsAuthenticated() {
		return "", apperr.Auth("resolve household", "not signed in")
	}
	if id := s.HouseholdID(); id != "" {
		return id, nil
	}
	return s.ensureHousehold(ctx)
}

// CurrentHousehold returns the active household without provisioning one.
func (s *SessionStore) CurrentHousehold(ctx context.Context) (string, error) {
	const op = "resolve household"
	if !s.IsAuthenticated() {
		return "", apperr.NotFound(op, "no household found")
	}
	if id := s.HouseholdID(); id != "" {
		return id, nil
	}
	if err := s.refreshMemberships(ctx, ""); err != nil {
		return "", err
	}
	if id := s.HouseholdID(); id != "" {
		return id, nil
	}
	return "", apperr.NotFound(op, "no household found")
}

// CreateHousehold creates a household owned by the user and makes it active.
func (s *SessionStore) CreateHousehold(ctx context.Context, name string) (*model.Household, error) {
	var h *model.Household
	err := s.run(s.logger, "create household", func() error {
		if !s.IsAuthenticated() {
			return apperr.Auth("create household", "not signed in")
		}
		var err error
		h, err = s.remote.CreateHousehold(ctx, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		return s.refreshMemberships(ctx, h.ID)
	})
	return h, err
}

// SwitchHousehold activates another household the user belongs to.
func (s *SessionStore) SwitchHousehold(ctx context.Context, householdID string) error {
	return s.run(s.logger, "switch household", func() error {
		if !s.IsAuthenticated() {
			return apperr.Auth("switch household", "not signed in")
		}
		memberships, err := s.remote.HouseholdMemberships(ctx)
		if err != nil {
			return err
		}
		for _, m := range memberships {
			if m.HouseholdID == householdID {
				s.setHousehold(householdID, memberships)
				return nil
			}
		}
		return apperr.NotFound("switch household", "household not found")
	})
}

// Household loads the active household record.
func (s *SessionStore) Household(ctx context.Context) (*model.Household, error) {
	var h *model.Household
	err := s.run(s.logger, "get household", func() error {
		id, err := s.CurrentHousehold(ctx)
		if err != nil {
			return err
		}
		h, err = s.remote.GetHousehold(ctx, id)
		return err
	})
	return h, err
}

// Members lists the members of the active household.
func (s *SessionStore) Members(ctx context.Context) ([]model.HouseholdMember, error) {
	var members []model.HouseholdMember
	err := s.run(s.logger, "list members", func() error {
		id, err := s.CurrentHousehold(ctx)
		if err != nil {
			return err
		}
		members, err = s.remote.HouseholdMembers(ctx, id)
		return err
	})
	return members, err
}

// InvitePartner invites email into the active household. The returned
// invitation carries the code to share if email delivery is unavailable.
func (s *SessionStore) InvitePartner(ctx context.Context, email string) (*model.Invitation, error) {
	var inv *model.Invitation
	err := s.run(s.logger, "invite partner", func() error {
		email = strings.TrimSpace(email)
		if email == "" {
			return apperr.Validation("invite partner", "email is required")
		}
		id, err := s.CurrentHousehold(ctx)
		if err != nil {
			return err
		}
		inv, err = s.remote.CreateInvitation(ctx, id, email)
		return err
	})
	return inv, err
}

// AcceptInvitation joins the inviting household and makes it active.
func (s *SessionStore) AcceptInvitation(ctx context.Context, code string) error {
	return s.run(s.logger, "accept invitation", func() error {
		if !s.IsAuthenticated() {
			return apperr.Auth("accept invitation", "not signed in")
		}
		m, err := s.remote.AcceptInvitation(ctx, code)
		if err != nil {
			return err
		}
		return s.refreshMemberships(ctx, m.HouseholdID)
	})
}
