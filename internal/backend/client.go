package backend

import (
	"context"
	"io"
	"sync"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/auth"
	"github.com/dukerupert/basket/internal/model"
)

// Client calls a Service in-process while holding one signed-in session,
// the way a remote client would over HTTP.
type Client struct {
	svc *Service

	mu    sync.RWMutex
	token string
}

func NewClient(svc *Service) *Client {
	return &Client{svc: svc}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// authed attaches the session's identity to ctx.
func (c *Client) authed(ctx context.Context) (context.Context, error) {
	ac, err := c.svc.Authenticate(ctx, c.Token())
	if err != nil {
		return nil, err
	}
	return auth.WithAuth(ctx, ac), nil
}

func (c *Client) remember(sess *model.AuthSession, err error) (*model.AuthSession, error) {
	if err != nil {
		return nil, err
	}
	c.SetToken(sess.AccessToken)
	return sess, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*model.AuthSession, error) {
	return c.remember(c.svc.SignUp(ctx, email, password))
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*model.AuthSession, error) {
	return c.remember(c.svc.SignIn(ctx, email, password))
}

func (c *Client) SignOut(ctx context.Context) error {
	defer c.SetToken("")
	actx, err := c.authed(ctx)
	if apperr.Is(err, apperr.KindAuth) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.svc.SignOut(actx)
}

// GetSession returns the held session, or nil when there is none or it is
// no longer valid.
func (c *Client) GetSession(ctx context.Context) (*model.AuthSession, error) {
	token := c.Token()
	if token == "" {
		return nil, nil
	}
	sess, err := c.svc.Session(ctx, token)
	if apperr.Is(err, apperr.KindAuth) {
		c.SetToken("")
		return nil, nil
	}
	return sess, err
}

func (c *Client) CreateHousehold(ctx context.Context, name string) (*model.Household, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.CreateHousehold(actx, name)
}

func (c *Client) GetHousehold(ctx context.Context, id string) (*model.Household, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.GetHousehold(actx, id)
}

func (c *Client) HouseholdMemberships(ctx context.Context) ([]model.HouseholdMember, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.HouseholdMemberships(actx)
}

func (c *Client) HouseholdMembers(ctx context.Context, householdID string) ([]model.HouseholdMember, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.HouseholdMembers(actx, householdID)
}

func (c *Client) CreateInvitation(ctx context.Context, householdID, email string) (*model.Invitation, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.CreateInvitation(actx, householdID, email)
}

func (c *Client) AcceptInvitation(ctx context.Context, code string) (*model.HouseholdMember, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.AcceptInvitation(actx, code)
}

func (c *Client) DefaultCategories(ctx context.Context) ([]model.Category, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.DefaultCategories(actx)
}

func (c *Client) HouseholdCategories(ctx context.Context, householdID string) ([]model.Category, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.HouseholdCategories(actx, householdID)
}

func (c *Client) InsertCategory(ctx context.Context, householdID, name string) (*model.Category, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.InsertCategory(actx, householdID, name)
}

func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*model.Category, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.UpdateCategory(actx, id, name)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	actx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	return c.svc.DeleteCategory(actx, id)
}

func (c *Client) ReassignItemsCategory(ctx context.Context, householdID, from, to string) (int64, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return 0, err
	}
	return c.svc.ReassignItemsCategory(actx, householdID, from, to)
}

func (c *Client) Lists(ctx context.Context, householdID string, includeArchived bool) ([]model.GroceryList, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.Lists(actx, householdID, includeArchived)
}

func (c *Client) GetList(ctx context.Context, id string) (*model.GroceryList, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.GetList(actx, id)
}

func (c *Client) InsertList(ctx context.Context, in model.NewList) (*model.GroceryList, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.InsertList(actx, in)
}

func (c *Client) UpdateList(ctx context.Context, id string, p model.ListPatch) (*model.GroceryList, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.UpdateList(actx, id, p)
}

func (c *Client) DeleteList(ctx context.Context, id string) error {
	actx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	return c.svc.DeleteList(actx, id)
}

func (c *Client) UploadReceipt(ctx context.Context, listID, contentType string, body io.Reader) (string, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return "", err
	}
	return c.svc.UploadReceipt(actx, listID, contentType, body)
}

func (c *Client) Items(ctx context.Context, listID string) ([]model.GroceryItem, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.Items(actx, listID)
}

func (c *Client) GetItem(ctx context.Context, id string) (*model.GroceryItem, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.GetItem(actx, id)
}

func (c *Client) InsertItem(ctx context.Context, in model.NewItem) (*model.GroceryItem, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.InsertItem(actx, in)
}

func (c *Client) UpdateItem(ctx context.Context, id string, p model.ItemPatch) (*model.GroceryItem, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	return c.svc.UpdateItem(actx, id, p)
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	actx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	return c.svc.DeleteItem(actx, id)
}

func (c *Client) DeleteItemsByList(ctx context.Context, listID string) (int64, error) {
	actx, err := c.authed(ctx)
	if err != nil {
		return 0, err
	}
	return c.svc.DeleteItemsByList(actx, listID)
}
