package app

import (
	"context"
	"io"

	"github.com/dukerupert/basket/internal/model"
)

// Remote is the data service the stores talk to. Every call is a single
// request/response; none are retried.
type Remote interface {
	SignUp(ctx context.Context, email, password string) (*model.AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*model.AuthSession, error)
	SignOut(ctx context.Context) error
	// GetSession returns nil, nil when there is no valid session to restore.
	GetSession(ctx context.Context) (*model.AuthSession, error)

	CreateHousehold(ctx context.Context, name string) (*model.Household, error)
	GetHousehold(ctx context.Context, id string) (*model.Household, error)
	HouseholdMemberships(ctx context.Context) ([]model.HouseholdMember, error)
	HouseholdMembers(ctx context.Context, householdID string) ([]model.HouseholdMember, error)
	CreateInvitation(ctx context.Context, householdID, email string) (*model.Invitation, error)
	AcceptInvitation(ctx context.Context, code string) (*model.HouseholdMember, error)

	DefaultCategories(ctx context.Context) ([]model.Category, error)
	HouseholdCategories(ctx context.Context, householdID string) ([]model.Category, error)
	InsertCategory(ctx context.Context, householdID, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ReassignItemsCategory(ctx context.Context, householdID, from, to string) (int64, error)

	Lists(ctx context.Context, householdID string, includeArchived bool) ([]model.GroceryList, error)
	GetList(ctx context.Context, id string) (*model.GroceryList, error)
	InsertList(ctx context.Context, in model.NewList) (*model.GroceryList, error)
	UpdateList(ctx context.Context, id string, p model.ListPatch) (*model.GroceryList, error)
	DeleteList(ctx context.Context, id string) error
	UploadReceipt(ctx context.Context, listID, contentType string, body io.Reader) (string, error)

	Items(ctx context.Context, listID string) ([]model.GroceryItem, error)
	GetItem(ctx context.Context, id string) (*model.GroceryItem, error)
	InsertItem(ctx context.Context, in model.NewItem) (*model.GroceryItem, error)
	UpdateItem(ctx context.Context, id string, p model.ItemPatch) (*model.GroceryItem, error)
	DeleteItem(ctx context.Context, id string) error
	DeleteItemsByList(ctx context.Context, listID string) (int64, error)
}
