package client

import (
	"context"
	"net/http"

	"github.com/dukerupert/basket/internal/model"
)

func (c *Client) CreateHousehold(ctx context.Context, name string) (*model.Household, error) {
	var h model.Household
	err := c.do(ctx, request{op: "create household", method: http.MethodPost, path: "/api/households",
		body: map[string]string{"name": name}}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) GetHousehold(ctx context.Context, householdID string) (*model.Household, error) {
	var h model.Household
	err := c.do(ctx, request{op: "get household", method: http.MethodGet, path: "/api/households/" + id(householdID)}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) HouseholdMemberships(ctx context.Context) ([]model.HouseholdMember, error) {
	var members []model.HouseholdMember
	err := c.do(ctx, request{op: "list memberships", method: http.MethodGet, path: "/api/household_members"}, &members)
	return members, err
}

func (c *Client) HouseholdMembers(ctx context.Context, householdID string) ([]model.HouseholdMember, error) {
	var members []model.HouseholdMember
	err := c.do(ctx, request{op: "list members", method: http.MethodGet,
		path: "/api/households/" + id(householdID) + "/members"}, &members)
	return members, err
}

func (c *Client) CreateInvitation(ctx context.Context, householdID, email string) (*model.Invitation, error) {
	var inv model.Invitation
	err := c.do(ctx, request{op: "invite partner", method: http.MethodPost,
		path: "/api/households/" + id(householdID) + "/invitations",
		body: map[string]string{"email": email}}, &inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) AcceptInvitation(ctx context.Context, code string) (*model.HouseholdMember, error) {
	var m model.HouseholdMember
	err := c.do(ctx, request{op: "accept invitation", method: http.MethodPost, path: "/api/invitations/accept",
		body: map[string]string{"code": code}}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
