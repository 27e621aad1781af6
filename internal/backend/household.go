package backend

import (
	"context"
	"strings"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
)

// CreateHousehold creates a household owned by the caller. The household
// and the owner membership are written in one transaction.
func (s *Service) CreateHousehold(ctx context.Context, name string) (*model.Household, error) {
	const op = "create household"
	ac, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.DefaultHouseholdName
	}
	h, err := s.households.Create(ctx, name, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.logger.Info("household created", "household_id", h.ID, "user_id", ac.UserID)
	return h, nil
}

func (s *Service) GetHousehold(ctx context.Context, id string) (*model.Household, error) {
	const op = "get household"
	if _, err := s.requireMember(ctx, op, id); err != nil {
		return nil, err
	}
	h, err := s.households.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if h == nil {
		return nil, apperr.NotFound(op, "household not found")
	}
	return h, nil
}

// HouseholdMemberships lists the caller's memberships, most recently joined
// first.
func (s *Service) HouseholdMemberships(ctx context.Context) ([]model.HouseholdMember, error) {
	const op = "list memberships"
	ac, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	members, err := s.households.ListMembershipsForUser(ctx, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	return members, nil
}

func (s *Service) HouseholdMembers(ctx context.Context, householdID string) ([]model.HouseholdMember, error) {
	const op = "list members"
	if _, err := s.requireMember(ctx, op, householdID); err != nil {
		return nil, err
	}
	members, err := s.households.ListMembers(ctx, householdID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	return members, nil
}

// CreateInvitation issues an invitation code for email into the household
// and emails it when a mailer is configured. The code is returned to the
// inviter either way so it can be shared by hand.
func (s *Service) CreateInvitation(ctx context.Context, householdID, email string) (*model.Invitation, error) {
	const op = "invite partner"
	ac, err := s.requireMember(ctx, op, householdID)
	if err != nil {
		return nil, err
	}
	email, ok := normalizeEmail(email)
	if !ok {
		return nil, apperr.Validation(op, "a valid email address is required")
	}
	if email == ac.Email {
		return nil, apperr.Validation(op, "you are already a member of this household")
	}
	if invitee, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, apperr.Remote(op, err)
	} else if invitee != nil {
		m, err := s.households.GetMember(ctx, householdID, invitee.ID)
		if err != nil {
			return nil, apperr.Remote(op, err)
		}
		if m != nil {
			return nil, apperr.Validation(op, "%s is already a member of this household", email)
		}
	}

	h, err := s.households.GetByID(ctx, householdID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	inv, err := s.invitations.Create(ctx, householdID, email, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}

	if s.mailer != nil && s.mailer.Configured() {
		if err := s.mailer.SendInvitation(ctx, email, inv.Code, h.Name, ac.Email); err != nil {
			s.logger.Warn("send invitation email", "household_id", householdID, "error", err)
		}
	} else {
		s.logger.Warn("email not configured, invitation must be shared manually", "household_id", householdID)
	}
	s.logger.Info("invitation created", "household_id", householdID, "invitation_id", inv.ID)
	return inv, nil
}

// AcceptInvitation adds the caller to the household that invited their
// email address. Accepting twice returns the existing membership.
func (s *Service) AcceptInvitation(ctx context.Context, code string) (*model.HouseholdMember, error) {
	const op = "accept invitation"
	ac, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	inv, err := s.invitations.GetPending(ctx, ac.Email, strings.TrimSpace(code))
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if inv == nil {
		return nil, apperr.NotFound(op, "invitation not found or expired")
	}

	m, err := s.households.GetMember(ctx, inv.HouseholdID, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if m == nil {
		m, err = s.households.AddMember(ctx, inv.HouseholdID, ac.UserID, model.RoleMember)
		if err != nil {
			return nil, apperr.Remote(op, err)
		}
		s.notify(inv.HouseholdID, "household_member", "created", m.ID)
	}
	if err := s.invitations.MarkAccepted(ctx, inv.ID); err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.logger.Info("invitation accepted", "household_id", inv.HouseholdID, "user_id", ac.UserID)
	return m, nil
}
