package backend

import (
	"context"
	"testing"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSessionLifecycle(t *testing.T) {
	f := setupService(t)
	c := NewClient(f.svc)
	ctx := context.Background()

	sess, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, err = c.Lists(ctx, "anything", false)
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	signed, err := c.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, signed.AccessToken, c.Token())

	restored, err := c.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, signed.User.ID, restored.User.ID)

	h, err := c.CreateHousehold(ctx, "Home")
	require.NoError(t, err)
	l, err := c.InsertList(ctx, model.NewList{HouseholdID: h.ID, Name: "Week 1"})
	require.NoError(t, err)
	lists, err := c.Lists(ctx, h.ID, false)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, l.ID, lists[0].ID)

	require.NoError(t, c.SignOut(ctx))
	assert.Empty(t, c.Token())

	sess, err = c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	// Signing out twice is harmless.
	require.NoError(t, c.SignOut(ctx))
}

func TestClientRevokedTokenClears(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	first := NewClient(f.svc)
	_, err := first.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	second := NewClient(f.svc)
	second.SetToken(first.Token())
	require.NoError(t, first.SignOut(ctx))

	sess, err := second.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Empty(t, second.Token())
}
