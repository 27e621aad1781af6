package app

import (
	"context"
	"testing"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCategoriesDefaultsFirst(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a, _ := f.signedUp(t, "alice@example.com")

	_, err := a.Categories().AddCategory(ctx, "Baby")
	require.NoError(t, err)
	_, err = a.Categories().AddCategory(ctx, "Asian Market")
	require.NoError(t, err)

	a.Categories().clearCache()
	require.NoError(t, a.Categories().FetchCategories(ctx))
	names := a.Categories().Names()
	require.Len(t, names, 11)
	assert.Equal(t, []string{"Produce", "Dairy", "Meat", "Frozen", "Pantry", "Bakery", "Beverages", "Household", "Other"}, names[:9])
	assert.ElementsMatch(t, []string{"Baby", "Asian Market"}, names[9:])

	for _, c := range a.Categories().Categories()[:9] {
		assert.True(t, c.IsDefault, c.Name)
		assert.Nil(t, c.HouseholdID, c.Name)
	}
}

func TestCategoriesAreHouseholdScoped(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	alice, _ := f.signedUp(t, "alice@example.com")
	bob, _ := f.signedUp(t, "bob@example.com")

	_, err := alice.Categories().AddCategory(ctx, "Baby")
	require.NoError(t, err)

	require.NoError(t, bob.Categories().FetchCategories(ctx))
	_, ok := bob.Categories().Lookup("Baby")
	assert.False(t, ok)
}

func TestAddCategoryErrors(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	noHousehold, _ := f.newApp()
	_, err := noHousehold.Categories().AddCategory(ctx, "Baby")
	assertKind(t, err, apperr.KindNotFound)
	assert.Contains(t, noHousehold.Categories().LastError(), "no household found")

	a, _ := f.signedUp(t, "alice@example.com")
	_, err = a.Categories().AddCategory(ctx, "   ")
	assertKind(t, err, apperr.KindValidation)
	_, err = a.Categories().AddCategory(ctx, "dairy")
	assertKind(t, err, apperr.KindValidation)
}

func TestDefaultCategoriesAreImmutable(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a, _ := f.signedUp(t, "alice@example.com")
	require.NoError(t, a.Categories().FetchCategories(ctx))

	dairyID, ok := a.Categories().Lookup("Dairy")
	require.True(t, ok)

	assertKind(t, a.Categories().UpdateCategory(ctx, dairyID, "Milk Stuff"), apperr.KindValidation)
	assertKind(t, a.Categories().DeleteCategory(ctx, dairyID), apperr.KindValidation)

	require.NoError(t, a.Categories().FetchCategories(ctx))
	id, ok := a.Categories().Lookup("Dairy")
	require.True(t, ok)
	assert.Equal(t, dairyID, id)
}

func TestUpdateCategoryKeepsItemStrings(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a, _ := f.signedUp(t, "alice@example.com")
	c, err := a.Categories().AddCategory(ctx, "Snacks")
	require.NoError(t, err)
	l, err := a.Lists().CreateList(ctx, "Week 1")
	require.NoError(t, err)
	_, err = a.Lists().AddItem(ctx, l.ID, "Pretzels", "Snacks", 1, "")
	require.NoError(t, err)

	require.NoError(t, a.Categories().UpdateCategory(ctx, c.ID, "Treats"))
	_, ok := a.Categories().Lookup("Treats")
	assert.True(t, ok)

	require.NoError(t, a.Lists().FetchListItems(ctx, l.ID))
	items := a.Lists().ItemsFor(l.ID)
	require.Len(t, items, 1)
	assert.Equal(t, "Snacks", items[0].Category)

	groups := a.Lists().GroupedItems(l.ID)
	require.Len(t, groups, 1)
	assert.Equal(t, model.OtherCategory, groups[0].Category)
}

func TestDeleteCategoryReassignsItems(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a, _ := f.signedUp(t, "alice@example.com")
	require.NoError(t, a.Categories().FetchCategories(ctx))

	c, err := a.Categories().AddCategory(ctx, "Snacks")
	require.NoError(t, err)
	week1, err := a.Lists().CreateList(ctx, "Week 1")
	require.NoError(t, err)
	week2, err := a.Lists().CreateList(ctx, "Week 2")
	require.NoError(t, err)
	for _, in := range []struct{ list, name, category string }{
		{week1.ID, "Chips", "Snacks"},
		{week1.ID, "Milk", "Dairy"},
		{week2.ID, "Pretzels", "Snacks"},
		{week2.ID, "Popcorn", "snacks"},
		{week2.ID, "Nuts", " SNACKS "},
	} {
		_, err := a.Lists().AddItem(ctx, in.list, in.name, in.category, 1, "")
		require.NoError(t, err)
	}

	require.NoError(t, a.Categories().DeleteCategory(ctx, c.ID))

	_, ok := a.Categories().Lookup("Snacks")
	assert.False(t, ok)

	known := map[string]bool{}
	require.NoError(t, a.Categories().FetchCategories(ctx))
	for _, name := range a.Categories().Names() {
		known[name] = true
	}

	want := map[string]string{"Chips": "Other", "Milk": "Dairy", "Pretzels": "Other", "Popcorn": "Other", "Nuts": "Other"}
	for _, l := range []string{week1.ID, week2.ID} {
		// Cache first, then the server's copy.
		for _, it := range a.Lists().ItemsFor(l) {
			assert.Equal(t, want[it.Name], it.Category, "cached %s", it.Name)
		}
		require.NoError(t, a.Lists().FetchListItems(ctx, l))
		for _, it := range a.Lists().ItemsFor(l) {
			assert.Equal(t, want[it.Name], it.Category, "stored %s", it.Name)
			assert.True(t, known[it.Category], "%s references missing category %q", it.Name, it.Category)
		}
	}
}

func TestDeleteCategoryNotFound(t *testing.T) {
	f := setupFixture(t)
	a, _ := f.signedUp(t, "alice@example.com")
	assertKind(t, a.Categories().DeleteCategory(context.Background(), "missing"), apperr.KindNotFound)
}
