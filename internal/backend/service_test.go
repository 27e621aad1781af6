package backend

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/auth"
	"github.com/dukerupert/basket/internal/database"
	"github.com/dukerupert/basket/internal/model"
	"github.com/dukerupert/basket/internal/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentInvite struct {
	to, code, household, inviter string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentInvite
	err  error
}

func (m *fakeMailer) Configured() bool { return true }

func (m *fakeMailer) SendInvitation(_ context.Context, to, code, household, inviter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentInvite{to, code, household, inviter})
	return m.err
}

type fakeReceipts struct {
	uploaded map[string]string
	deleted  []string
	err      error
}

func (r *fakeReceipts) Configured() bool { return true }

func (r *fakeReceipts) Upload(_ context.Context, householdID, listID, contentType string, body io.Reader) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	data, _ := io.ReadAll(body)
	url := "https://cdn.test/receipts/" + householdID + "/" + listID + ".jpg"
	r.uploaded[url] = string(data)
	return url, nil
}

func (r *fakeReceipts) Delete(_ context.Context, url string) error {
	r.deleted = append(r.deleted, url)
	return nil
}

type notice struct {
	householdID, entity, action, id string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *recordingNotifier) Notify(householdID, entity, action, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{householdID, entity, action, id})
}

func (n *recordingNotifier) last() notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return notice{}
	}
	return n.notices[len(n.notices)-1]
}

type fixture struct {
	svc      *Service
	mailer   *fakeMailer
	receipts *fakeReceipts
	notifier *recordingNotifier
}

func setupService(t *testing.T) fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := fixture{
		mailer:   &fakeMailer{},
		receipts: &fakeReceipts{uploaded: map[string]string{}},
		notifier: &recordingNotifier{},
	}
	f.svc = New(db, Config{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost},
		WithMailer(f.mailer), WithReceipts(f.receipts), WithNotifier(f.notifier))
	return f
}

// signUp registers a user and returns a context carrying their identity.
func (f fixture) signUp(t *testing.T, email string) context.Context {
	t.Helper()
	ctx := context.Background()
	sess, err := f.svc.SignUp(ctx, email, "password123")
	require.NoError(t, err)
	ac, err := f.svc.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)
	return auth.WithAuth(ctx, ac)
}

func (f fixture) household(t *testing.T, ctx context.Context) string {
	t.Helper()
	h, err := f.svc.CreateHousehold(ctx, "")
	require.NoError(t, err)
	return h.ID
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}

func TestSignUpAndSignIn(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	sess, err := f.svc.SignUp(ctx, "  Alice@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.AccessToken)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	again, err := f.svc.SignIn(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)
	assert.NotEqual(t, sess.AccessToken, again.AccessToken)
}

func TestSignUpErrors(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"duplicate email", "ALICE@example.com", "password123"},
		{"weak password", "bob@example.com", "short"},
		{"invalid email", "not-an-email", "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SignUp(ctx, tt.email, tt.password)
			assertKind(t, err, apperr.KindAuth)
		})
	}
}

func TestSignInWrongPassword(t *testing.T) {
	f := setupService(t)
	f.signUp(t, "alice@example.com")

	_, err := f.svc.SignIn(context.Background(), "alice@example.com", "wrong-password")
	assertKind(t, err, apperr.KindAuth)

	_, err = f.svc.SignIn(context.Background(), "nobody@example.com", "password123")
	assertKind(t, err, apperr.KindAuth)
}

func TestSignOutRevokesToken(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	sess, err := f.svc.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	ac, err := f.svc.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)

	restored, err := f.svc.Session(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, restored.User.ID)

	require.NoError(t, f.svc.SignOut(auth.WithAuth(ctx, ac)))

	_, err = f.svc.Authenticate(ctx, sess.AccessToken)
	assertKind(t, err, apperr.KindAuth)
	_, err = f.svc.Session(ctx, sess.AccessToken)
	assertKind(t, err, apperr.KindAuth)
}

func TestUnauthenticatedCalls(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	_, err := f.svc.CreateHousehold(ctx, "x")
	assertKind(t, err, apperr.KindAuth)
	_, err = f.svc.DefaultCategories(ctx)
	assertKind(t, err, apperr.KindAuth)
	_, err = f.svc.Authenticate(ctx, "")
	assertKind(t, err, apperr.KindAuth)
}

func TestCreateHouseholdDefaultsName(t *testing.T) {
	f := setupService(t)
	ctx := f.signUp(t, "alice@example.com")

	h, err := f.svc.CreateHousehold(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultHouseholdName, h.Name)

	members, err := f.svc.HouseholdMembers(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, model.RoleOwner, members[0].Role)
}

func TestHouseholdIsolation(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	bob := f.signUp(t, "bob@example.com")
	aliceHousehold := f.household(t, alice)

	list, err := f.svc.InsertList(alice, model.NewList{HouseholdID: aliceHousehold, Name: "Week 1"})
	require.NoError(t, err)
	item, err := f.svc.InsertItem(alice, model.NewItem{ListID: list.ID, Name: "Milk", Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.GetHousehold(bob, aliceHousehold)
	assertKind(t, err, apperr.KindNotFound)
	_, err = f.svc.Lists(bob, aliceHousehold, false)
	assertKind(t, err, apperr.KindNotFound)
	_, err = f.svc.GetList(bob, list.ID)
	assertKind(t, err, apperr.KindNotFound)
	_, err = f.svc.InsertList(bob, model.NewList{HouseholdID: aliceHousehold})
	assertKind(t, err, apperr.KindNotFound)
	_, err = f.svc.InsertItem(bob, model.NewItem{ListID: list.ID, Name: "Eggs", Quantity: 1})
	assertKind(t, err, apperr.KindNotFound)
	err = f.svc.DeleteItem(bob, item.ID)
	assertKind(t, err, apperr.KindNotFound)
	err = f.svc.DeleteList(bob, list.ID)
	assertKind(t, err, apperr.KindNotFound)

	items, err := f.svc.Items(bob, list.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = f.svc.Items(alice, list.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestInvitationFlow(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)

	inv, err := f.svc.CreateInvitation(alice, householdID, "Bob@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", inv.Email)
	assert.Len(t, inv.Code, 6)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, sentInvite{"bob@example.com", inv.Code, model.DefaultHouseholdName, "alice@example.com"}, f.mailer.sent[0])

	bob := f.signUp(t, "bob@example.com")
	_, err = f.svc.AcceptInvitation(bob, "000000")
	assertKind(t, err, apperr.KindNotFound)

	m, err := f.svc.AcceptInvitation(bob, inv.Code)
	require.NoError(t, err)
	assert.Equal(t, householdID, m.HouseholdID)
	assert.Equal(t, model.RoleMember, m.Role)
	assert.Equal(t, notice{householdID, "household_member", "created", m.ID}, f.notifier.last())

	members, err := f.svc.HouseholdMembers(bob, householdID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	// Accepted codes cannot be reused.
	_, err = f.svc.AcceptInvitation(bob, inv.Code)
	assertKind(t, err, apperr.KindNotFound)

	_, err = f.svc.CreateInvitation(alice, householdID, "bob@example.com")
	assertKind(t, err, apperr.KindValidation)
}

func TestInvitationWrongEmail(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)

	inv, err := f.svc.CreateInvitation(alice, householdID, "bob@example.com")
	require.NoError(t, err)

	carol := f.signUp(t, "carol@example.com")
	_, err = f.svc.AcceptInvitation(carol, inv.Code)
	assertKind(t, err, apperr.KindNotFound)
}

func TestInvitationValidation(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)

	_, err := f.svc.CreateInvitation(alice, householdID, "nope")
	assertKind(t, err, apperr.KindValidation)
	_, err = f.svc.CreateInvitation(alice, householdID, "alice@example.com")
	assertKind(t, err, apperr.KindValidation)
}

func TestInvitationMailFailureStillReturnsCode(t *testing.T) {
	f := setupService(t)
	f.mailer.err = errors.New("postmark down")
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)

	inv, err := f.svc.CreateInvitation(alice, householdID, "bob@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Code)
}

func TestCategories(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)

	defaults, err := f.svc.DefaultCategories(alice)
	require.NoError(t, err)
	require.Len(t, defaults, 9)

	baby, err := f.svc.InsertCategory(alice, householdID, " Baby ")
	require.NoError(t, err)
	assert.Equal(t, "Baby", baby.Name)
	assert.False(t, baby.IsDefault)

	_, err = f.svc.InsertCategory(alice, householdID, "dairy")
	assertKind(t, err, apperr.KindValidation)
	_, err = f.svc.InsertCategory(alice, householdID, "")
	assertKind(t, err, apperr.KindValidation)

	custom, err := f.svc.HouseholdCategories(alice, householdID)
	require.NoError(t, err)
	require.Len(t, custom, 1)

	renamed, err := f.svc.UpdateCategory(alice, baby.ID, "Kids")
	require.NoError(t, err)
	assert.Equal(t, "Kids", renamed.Name)

	// Renaming to its own name with different case is allowed.
	_, err = f.svc.UpdateCategory(alice, baby.ID, "kids")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteCategory(alice, baby.ID))
	custom, err = f.svc.HouseholdCategories(alice, householdID)
	require.NoError(t, err)
	assert.Empty(t, custom)
}

func TestDefaultCategoriesImmutable(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	f.household(t, alice)

	defaults, err := f.svc.DefaultCategories(alice)
	require.NoError(t, err)
	dairy := defaults[1]

	_, err = f.svc.UpdateCategory(alice, dairy.ID, "Milk")
	assertKind(t, err, apperr.KindValidation)
	err = f.svc.DeleteCategory(alice, dairy.ID)
	assertKind(t, err, apperr.KindValidation)

	after, err := f.svc.DefaultCategories(alice)
	require.NoError(t, err)
	assert.Equal(t, defaults, after)
}

func TestForeignCategoryHidden(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	bob := f.signUp(t, "bob@example.com")
	householdID := f.household(t, alice)
	f.household(t, bob)

	baby, err := f.svc.InsertCategory(alice, householdID, "Baby")
	require.NoError(t, err)

	_, err = f.svc.UpdateCategory(bob, baby.ID, "Mine")
	assertKind(t, err, apperr.KindNotFound)
	err = f.svc.DeleteCategory(bob, baby.ID)
	assertKind(t, err, apperr.KindNotFound)
}

func TestReassignItemsCategory(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)

	list, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID})
	require.NoError(t, err)
	for _, name := range []string{"Diapers", "Wipes"} {
		_, err := f.svc.InsertItem(alice, model.NewItem{ListID: list.ID, Name: name, Category: "Baby", Quantity: 1})
		require.NoError(t, err)
	}

	n, err := f.svc.ReassignItemsCategory(alice, householdID, "Baby", "other")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := f.svc.Items(alice, list.ID)
	require.NoError(t, err)
	for _, item := range items {
		assert.Equal(t, model.OtherCategory, item.Category)
	}

	_, err = f.svc.ReassignItemsCategory(alice, householdID, "Other", "Nope")
	assertKind(t, err, apperr.KindNotFound)
}

func TestInsertListDefaults(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)

	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID, Name: "  "})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultListName, l.Name)
	assert.Len(t, l.WeekOf, len("2006-01-02"))
	assert.False(t, l.IsCompleted)
	assert.Equal(t, notice{householdID, "grocery_list", "created", l.ID}, f.notifier.last())

	_, err = f.svc.InsertList(alice, model.NewList{HouseholdID: householdID, WeekOf: "next week"})
	assertKind(t, err, apperr.KindValidation)
}

func TestUpdateListValidation(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)
	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID, Name: "Week 1"})
	require.NoError(t, err)

	blank := " \t"
	_, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{Name: &blank})
	assertKind(t, err, apperr.KindValidation)

	negative := -1.0
	_, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{TotalSpent: &negative})
	assertKind(t, err, apperr.KindValidation)

	bitcoin := "Bitcoin"
	_, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{PaymentMethod: &bitcoin})
	assertKind(t, err, apperr.KindValidation)

	name := "  Party "
	updated, err := f.svc.UpdateList(alice, l.ID, model.ListPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Party", updated.Name)
}

func TestCompletedListIsFinal(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)
	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID, Name: "Week 1"})
	require.NoError(t, err)

	done, total, method := true, 42.5, "Cash"
	l, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{IsCompleted: &done, TotalSpent: &total, PaymentMethod: &method})
	require.NoError(t, err)
	require.True(t, l.IsCompleted)

	reopen := false
	_, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{IsCompleted: &reopen})
	assertKind(t, err, apperr.KindValidation)

	again := 10.0
	_, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{IsCompleted: &done, TotalSpent: &again})
	assertKind(t, err, apperr.KindValidation)
	card := "Credit Card"
	_, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{PaymentMethod: &card})
	assertKind(t, err, apperr.KindValidation)

	stored, err := f.svc.GetList(alice, l.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	require.NotNil(t, stored.TotalSpent)
	assert.Equal(t, 42.5, *stored.TotalSpent)
	assert.Equal(t, "Cash", stored.PaymentMethod)

	name, archived, receiptURL := "Week 1 (done)", true, "https://cdn.test/r.jpg"
	updated, err := f.svc.UpdateList(alice, l.ID, model.ListPatch{Name: &name, IsArchived: &archived, ReceiptURL: &receiptURL})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.IsArchived)
	assert.True(t, updated.IsCompleted)
}

func TestGetItem(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	bob := f.signUp(t, "bob@example.com")
	householdID := f.household(t, alice)
	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID, Name: "Week 1"})
	require.NoError(t, err)
	item, err := f.svc.InsertItem(alice, model.NewItem{ListID: l.ID, Name: "Milk", Quantity: 1})
	require.NoError(t, err)

	got, err := f.svc.GetItem(alice, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name)
	assert.Equal(t, "Dairy", got.Category)

	_, err = f.svc.GetItem(bob, item.ID)
	assertKind(t, err, apperr.KindNotFound)
	_, err = f.svc.GetItem(alice, "missing")
	assertKind(t, err, apperr.KindNotFound)
}

func TestItemValidationAndAutoCategory(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)
	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID})
	require.NoError(t, err)

	_, err = f.svc.InsertItem(alice, model.NewItem{ListID: l.ID, Name: "Milk", Quantity: 0})
	assertKind(t, err, apperr.KindValidation)
	_, err = f.svc.InsertItem(alice, model.NewItem{ListID: l.ID, Name: " ", Quantity: 1})
	assertKind(t, err, apperr.KindValidation)

	item, err := f.svc.InsertItem(alice, model.NewItem{ListID: l.ID, Name: "Bananas", Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, "Produce", item.Category)
	assert.Equal(t, auth.UserID(alice), item.AddedBy)

	zero := 0
	_, err = f.svc.UpdateItem(alice, item.ID, model.ItemPatch{Quantity: &zero})
	assertKind(t, err, apperr.KindValidation)
	empty := ""
	_, err = f.svc.UpdateItem(alice, item.ID, model.ItemPatch{Category: &empty})
	assertKind(t, err, apperr.KindValidation)

	checked := true
	updated, err := f.svc.UpdateItem(alice, item.ID, model.ItemPatch{IsChecked: &checked})
	require.NoError(t, err)
	assert.True(t, updated.IsChecked)
	assert.Equal(t, 6, updated.Quantity)

	_, err = f.svc.UpdateItem(alice, "missing", model.ItemPatch{IsChecked: &checked})
	assertKind(t, err, apperr.KindNotFound)
}

func TestDeleteListRemovesItemsAndReceipt(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)
	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID})
	require.NoError(t, err)
	_, err = f.svc.InsertItem(alice, model.NewItem{ListID: l.ID, Name: "Milk", Quantity: 1})
	require.NoError(t, err)

	url, err := f.svc.UploadReceipt(alice, l.ID, "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	_, err = f.svc.UpdateList(alice, l.ID, model.ListPatch{ReceiptURL: &url})
	require.NoError(t, err)

	n, err := f.svc.DeleteItemsByList(alice, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, f.svc.DeleteList(alice, l.ID))
	assert.Equal(t, []string{url}, f.receipts.deleted)

	items, err := f.svc.Items(alice, l.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	_, err = f.svc.GetList(alice, l.ID)
	assertKind(t, err, apperr.KindNotFound)
}

func TestUploadReceiptErrors(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)
	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID})
	require.NoError(t, err)

	f.receipts.err = receipt.ErrUnsupportedType
	_, err = f.svc.UploadReceipt(alice, l.ID, "text/plain", strings.NewReader("x"))
	assertKind(t, err, apperr.KindValidation)

	f.receipts.err = errors.New("s3 unavailable")
	_, err = f.svc.UploadReceipt(alice, l.ID, "image/png", strings.NewReader("x"))
	assertKind(t, err, apperr.KindRemote)
}

func TestUploadReceiptNotConfigured(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f := fixture{svc: New(db, Config{JWTSecret: "s", BcryptCost: bcrypt.MinCost})}

	alice := f.signUp(t, "alice@example.com")
	householdID := f.household(t, alice)
	l, err := f.svc.InsertList(alice, model.NewList{HouseholdID: householdID})
	require.NoError(t, err)

	_, err = f.svc.UploadReceipt(alice, l.ID, "image/png", strings.NewReader("x"))
	assertKind(t, err, apperr.KindValidation)
}

func TestMembershipsMostRecentFirst(t *testing.T) {
	f := setupService(t)
	alice := f.signUp(t, "alice@example.com")
	bob := f.signUp(t, "bob@example.com")
	first := f.household(t, alice)
	bobs := f.household(t, bob)

	inv, err := f.svc.CreateInvitation(bob, bobs, "alice@example.com")
	require.NoError(t, err)
	_, err = f.svc.AcceptInvitation(alice, inv.Code)
	require.NoError(t, err)

	memberships, err := f.svc.HouseholdMemberships(alice)
	require.NoError(t, err)
	require.Len(t, memberships, 2)
	assert.Equal(t, bobs, memberships[0].HouseholdID)
	assert.Equal(t, first, memberships[1].HouseholdID)
}

func TestPurgeExpired(t *testing.T) {
	f := setupService(t)
	f.signUp(t, "alice@example.com")
	require.NoError(t, f.svc.PurgeExpired(context.Background()))
}
