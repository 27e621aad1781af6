package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/basket/internal/app"
	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/backend"
	"github.com/dukerupert/basket/internal/database"
	"github.com/dukerupert/basket/internal/model"
	"github.com/dukerupert/basket/internal/server"
	"github.com/dukerupert/basket/internal/websocket"
)

const testAPIKey = "public-anon-key"

var _ app.Remote = (*Client)(nil)

func setupService(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := websocket.NewHub(logger)
	svc := backend.New(db, backend.Config{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost},
		backend.WithNotifier(hub), backend.WithLogger(logger))
	srv := server.New(server.Config{APIKey: testAPIKey, SignInLimit: 100}, svc, hub, nil, logger)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, ts *httptest.Server, sessionFile string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: ts.URL + "/", APIKey: testAPIKey, SessionFile: sessionFile, HTTPClient: ts.Client()})
	require.NoError(t, err)
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{APIKey: testAPIKey})
	assert.Error(t, err)
}

func TestSessionPersists(t *testing.T) {
	ts := setupService(t)
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "basket", "session.json")

	c := newClient(t, ts, file)
	sess, err := c.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.FileExists(t, file)

	restored := newClient(t, ts, file)
	assert.Equal(t, sess.AccessToken, restored.Token())
	got, err := restored.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.User.Email)

	require.NoError(t, restored.SignOut(ctx))
	assert.Empty(t, restored.Token())
	assert.NoFileExists(t, file)

	// The first client still holds the revoked token.
	got, err = c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, c.Token())
}

func TestGetSessionWithoutToken(t *testing.T) {
	ts := setupService(t)
	c := newClient(t, ts, "")

	sess, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.NoError(t, c.SignOut(context.Background()))
}

func TestCorruptSessionFileIsSignedOut(t *testing.T) {
	ts := setupService(t)
	file := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o600))

	c := newClient(t, ts, file)
	assert.Empty(t, c.Token())
}

func TestErrorKinds(t *testing.T) {
	ts := setupService(t)
	ctx := context.Background()
	c := newClient(t, ts, "")

	_, err := c.HouseholdMemberships(ctx)
	assert.True(t, apperr.Is(err, apperr.KindAuth), "not signed in: %v", err)

	_, err = c.SignIn(ctx, "nobody@example.com", "password123")
	assert.True(t, apperr.Is(err, apperr.KindAuth), "bad credentials: %v", err)

	_, err = c.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = c.GetList(ctx, "no-such-list")
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "missing list: %v", err)

	defaults, err := c.DefaultCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, defaults)
	_, err = c.UpdateCategory(ctx, defaults[0].ID, "Renamed")
	assert.True(t, apperr.Is(err, apperr.KindValidation), "default category: %v", err)
	assert.NotEmpty(t, apperr.Message(err))

	wrongKey, err := New(Config{BaseURL: ts.URL, APIKey: "wrong", HTTPClient: ts.Client()})
	require.NoError(t, err)
	_, err = wrongKey.DefaultCategories(ctx)
	assert.True(t, apperr.Is(err, apperr.KindAuth), "api key: %v", err)
}

func TestNonJSONErrorFallsBackToStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer ts.Close()
	c := newClient(t, ts, "")

	_, err := c.DefaultCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindRemote, apperr.KindOf(err))
	assert.Equal(t, "upstream unavailable", apperr.Message(err))
}

func TestSendsHeaders(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","expires_at":"2030-01-01T00:00:00Z","user":{"id":"u1","email":"a@example.com"}}`))
	}))
	defer ts.Close()
	c := newClient(t, ts, "")

	_, err := c.SignIn(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, testAPIKey, got.Get("apikey"))
	assert.Empty(t, got.Get("Authorization"))

	_, err = c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
}

func TestGroceryRoundTrip(t *testing.T) {
	ts := setupService(t)
	ctx := context.Background()
	c := newClient(t, ts, "")

	_, err := c.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	household, err := c.CreateHousehold(ctx, "Home")
	require.NoError(t, err)

	l, err := c.InsertList(ctx, model.NewList{HouseholdID: household.ID, Name: "Week 1", WeekOf: "2026-10-12"})
	require.NoError(t, err)
	item, err := c.InsertItem(ctx, model.NewItem{ListID: l.ID, Name: "Milk", Category: "Dairy", Quantity: 2, Unit: "L"})
	require.NoError(t, err)

	checked := true
	item, err = c.UpdateItem(ctx, item.ID, model.ItemPatch{IsChecked: &checked})
	require.NoError(t, err)
	assert.True(t, item.IsChecked)
	fetched, err := c.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, fetched.ID)
	assert.True(t, fetched.IsChecked)
	_, err = c.GetItem(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	custom, err := c.InsertCategory(ctx, household.ID, "Snacks")
	require.NoError(t, err)
	cats, err := c.HouseholdCategories(ctx, household.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, custom.ID, cats[0].ID)

	n, err := c.ReassignItemsCategory(ctx, household.ID, "Dairy", "Snacks")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	archived := true
	_, err = c.UpdateList(ctx, l.ID, model.ListPatch{IsArchived: &archived})
	require.NoError(t, err)
	active, err := c.Lists(ctx, household.ID, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := c.Lists(ctx, household.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	n, err = c.DeleteItemsByList(ctx, l.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, c.DeleteList(ctx, l.ID))
	require.NoError(t, c.DeleteCategory(ctx, custom.ID))

	items, err := c.Items(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAppOverHTTP(t *testing.T) {
	ts := setupService(t)
	ctx := context.Background()
	c := newClient(t, ts, "")
	now := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	a := app.New(c, app.WithClock(func() time.Time { return now }))

	require.NoError(t, a.Session().SignUp(ctx, "alice@example.com", "password123"))
	require.NoError(t, a.Lists().FetchLists(ctx))
	require.Len(t, a.Lists().Lists(), 1)
	l := a.Lists().Lists()[0]
	assert.Equal(t, "2026-10-12", l.WeekOf)

	milk, err := a.Lists().AddItem(ctx, l.ID, "Milk", "", 2, "L")
	require.NoError(t, err)
	assert.Equal(t, "Dairy", milk.Category)
	_, err = a.Lists().ToggleItemCheck(ctx, milk.ID)
	require.NoError(t, err)

	done, err := a.Lists().CompleteList(ctx, l.ID, 42.50, "Cash", "")
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	invite, err := a.Session().InvitePartner(ctx, "bob@example.com")
	require.NoError(t, err)

	bob := app.New(newClient(t, ts, ""), app.WithClock(func() time.Time { return now }))
	require.NoError(t, bob.Session().SignUp(ctx, "bob@example.com", "password123"))
	require.NoError(t, bob.Session().AcceptInvitation(ctx, invite.Code))
	assert.Equal(t, a.Session().HouseholdID(), bob.Session().HouseholdID())

	require.NoError(t, bob.Lists().FetchListItems(ctx, l.ID))
	items := bob.Lists().ItemsFor(l.ID)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsChecked)
}
