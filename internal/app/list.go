package app

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/grocery"
	"github.com/dukerupert/basket/internal/model"
)

// Confirmer asks the user to approve a destructive action. Returning false
// cancels it.
type Confirmer func(ctx context.Context, prompt string) bool

// ListStore caches the active household's lists and the items of every list
// fetched so far.
type ListStore struct {
	state
	remote     Remote
	logger     *slog.Logger
	session    *SessionStore
	categories *CategoryStore
	confirm    Confirmer
	now        func() time.Time

	lists       []model.GroceryList
	currentList *model.GroceryList
	items       []model.GroceryItem
}

func newListStore(remote Remote, session *SessionStore, categories *CategoryStore, confirm Confirmer, now func() time.Time, logger *slog.Logger) *ListStore {
	return &ListStore{
		remote:     remote,
		session:    session,
		categories: categories,
		confirm:    confirm,
		now:        now,
		logger:     logger.With("component", "list_store"),
	}
}

func (s *ListStore) clearCache() {
	s.mu.Lock()
	s.lists = nil
	s.currentList = nil
	s.items = nil
	s.mu.Unlock()
}

func (s *ListStore) reset() {
	s.mu.Lock()
	s.lists = nil
	s.currentList = nil
	s.items = nil
	s.pending = 0
	s.err = ""
	s.mu.Unlock()
}

// Lists returns the cached, non-archived lists, newest first.
func (s *ListStore) Lists() []model.GroceryList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lists)
}

// CurrentList returns the list whose items were fetched last.
func (s *ListStore) CurrentList() *model.GroceryList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentList == nil {
		return nil
	}
	l := *s.currentList
	return &l
}

// Items returns every cached item across lists.
func (s *ListStore) Items() []model.GroceryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *ListStore) ActiveLists() []model.GroceryList {
	return grocery.ActiveLists(s.Lists())
}

func (s *ListStore) CompletedLists() []model.GroceryList {
	return grocery.CompletedLists(s.Lists())
}

// ItemsFor returns the cached items of one list in insertion order.
func (s *ListStore) ItemsFor(listID string) []model.GroceryItem {
	return grocery.ItemsForList(s.Items(), listID)
}

// GroupedItems returns a list's items grouped under the cached categories.
func (s *ListStore) GroupedItems(listID string) []grocery.CategoryGroup {
	return grocery.GroupByCategory(s.ItemsFor(listID), s.categories.Categories())
}

func (s *ListStore) SearchItems(listID, query string) []model.GroceryItem {
	return grocery.SearchItems(s.ItemsFor(listID), query)
}

func (s *ListStore) SearchHistory(query string) []model.GroceryList {
	return grocery.SearchHistory(s.Lists(), query)
}

func (s *ListStore) SpendSummary() grocery.SpendSummary {
	return grocery.Summarize(s.Lists())
}

func (s *ListStore) putList(l model.GroceryList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentList != nil && s.currentList.ID == l.ID {
		cur := l
		s.currentList = &cur
	}
	for i := range s.lists {
		if s.lists[i].ID == l.ID {
			s.lists[i] = l
			return
		}
	}
	s.lists = slices.Insert(s.lists, 0, l)
}

func (s *ListStore) dropList(id string, withItems bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = slices.DeleteFunc(s.lists, func(l model.GroceryList) bool { return l.ID == id })
	if s.currentList != nil && s.currentList.ID == id {
		s.currentList = nil
	}
	if withItems {
		s.items = slices.DeleteFunc(s.items, func(it model.GroceryItem) bool { return it.ListID == id })
	}
}

func (s *ListStore) putItem(item model.GroceryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

func (s *ListStore) findItem(id string) (model.GroceryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.GroceryItem{}, false
}

// renameCategory rewrites cached items after the server moved them from one
// category to another. Category names match case-insensitively.
func (s *ListStore) renameCategory(from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if strings.EqualFold(s.items[i].Category, from) {
			s.items[i].Category = to
		}
	}
}

// FetchLists loads the household's non-archived lists. A household with no
// lists gets a default one.
func (s *ListStore) FetchLists(ctx context.Context) error {
	return s.run(s.logger, "fetch lists", func() error {
		householdID, err := s.session.ResolveHousehold(ctx)
		if err != nil {
			return err
		}
		lists, err := s.remote.Lists(ctx, householdID, false)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			s.logger.Info("creating first list", "household_id", householdID)
			l, err := s.insertList(ctx, householdID, "", "")
			if err != nil {
				return err
			}
			lists = []model.GroceryList{*l}
		}
		s.mu.Lock()
		s.lists = lists
		s.mu.Unlock()
		return nil
	})
}

func (s *ListStore) insertList(ctx context.Context, householdID, name, weekOf string) (*model.GroceryList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.DefaultListName
	}
	if weekOf == "" {
		weekOf = grocery.WeekOf(s.now())
	}
	return s.remote.InsertList(ctx, model.NewList{HouseholdID: householdID, Name: name, WeekOf: weekOf})
}

// CreateList starts a list for the current week.
func (s *ListStore) CreateList(ctx context.Context, name string) (*model.GroceryList, error) {
	var l *model.GroceryList
	err := s.run(s.logger, "create list", func() error {
		householdID, err := s.session.ResolveHousehold(ctx)
		if err != nil {
			return err
		}
		l, err = s.insertList(ctx, householdID, name, "")
		if err != nil {
			return err
		}
		s.putList(*l)
		return nil
	})
	return l, err
}

// DuplicateList copies a list and all of its items, unchecked.
func (s *ListStore) DuplicateList(ctx context.Context, listID string) (*model.GroceryList, error) {
	var l *model.GroceryList
	err := s.run(s.logger, "duplicate list", func() error {
		src, err := s.remote.GetList(ctx, listID)
		if err != nil {
			return err
		}
		items, err := s.remote.Items(ctx, listID)
		if err != nil {
			return err
		}
		l, err = s.remote.InsertList(ctx, model.NewList{HouseholdID: src.HouseholdID, Name: src.Name, WeekOf: src.WeekOf})
		if err != nil {
			return err
		}
		s.putList(*l)
		for _, it := range items {
			copied, err := s.remote.InsertItem(ctx, model.NewItem{
				ListID:   l.ID,
				Name:     it.Name,
				Category: it.Category,
				Quantity: it.Quantity,
				Unit:     it.Unit,
			})
			if err != nil {
				return err
			}
			s.putItem(*copied)
		}
		return nil
	})
	return l, err
}

// FetchListItems loads one list's items and makes it the current list. A
// list that no longer exists, or is not visible, leaves no items behind and
// is not an error.
func (s *ListStore) FetchListItems(ctx context.Context, listID string) error {
	return s.run(s.logger, "fetch list items", func() error {
		l, err := s.remote.GetList(ctx, listID)
		if apperr.Is(err, apperr.KindNotFound) {
			s.dropList(listID, true)
			return nil
		}
		if err != nil {
			return err
		}
		items, err := s.remote.Items(ctx, listID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.items = slices.DeleteFunc(s.items, func(it model.GroceryItem) bool { return it.ListID == listID })
		s.items = append(s.items, items...)
		cur := *l
		s.currentList = &cur
		s.mu.Unlock()
		return nil
	})
}

// AddItem adds an item to a list. An empty category is inferred from the
// item name.
func (s *ListStore) AddItem(ctx context.Context, listID, name, category string, quantity int, unit string) (*model.GroceryItem, error) {
	const op = "add item"
	var item *model.GroceryItem
	err := s.run(s.logger, op, func() error {
		name = strings.TrimSpace(name)
		if name == "" {
			return apperr.Validation(op, "item name is required")
		}
		if quantity < 1 {
			return apperr.Validation(op, "quantity must be at least 1")
		}
		category = strings.TrimSpace(category)
		if category == "" {
			category = grocery.Categorize(name)
		}
		var err error
		item, err = s.remote.InsertItem(ctx, model.NewItem{
			ListID:   listID,
			Name:     name,
			Category: category,
			Quantity: quantity,
			Unit:     strings.TrimSpace(unit),
		})
		if err != nil {
			return err
		}
		s.putItem(*item)
		return nil
	})
	return item, err
}

func (s *ListStore) patchItem(ctx context.Context, op, id string, p model.ItemPatch) (*model.GroceryItem, error) {
	var item *model.GroceryItem
	err := s.run(s.logger, op, func() error {
		if p.Quantity != nil && *p.Quantity < 1 {
			return apperr.Validation(op, "quantity must be at least 1")
		}
		if p.Name != nil {
			name := strings.TrimSpace(*p.Name)
			if name == "" {
				return apperr.Validation(op, "item name is required")
			}
			p.Name = &name
		}
		var err error
		item, err = s.remote.UpdateItem(ctx, id, p)
		if err != nil {
			return err
		}
		s.putItem(*item)
		return nil
	})
	return item, err
}

// UpdateItem applies a partial update to an item.
func (s *ListStore) UpdateItem(ctx context.Context, id string, p model.ItemPatch) (*model.GroceryItem, error) {
	return s.patchItem(ctx, "update item", id, p)
}

// ToggleItemCheck flips an item's checked state. An item that is not cached
// is read from the remote first.
func (s *ListStore) ToggleItemCheck(ctx context.Context, id string) (*model.GroceryItem, error) {
	it, ok := s.findItem(id)
	if !ok {
		err := s.run(s.logger, "toggle item", func() error {
			fetched, err := s.remote.GetItem(ctx, id)
			if err != nil {
				return err
			}
			s.putItem(*fetched)
			it = *fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	checked := !it.IsChecked
	return s.patchItem(ctx, "toggle item", id, model.ItemPatch{IsChecked: &checked})
}

// MoveItemToCategory changes only the item's category name.
func (s *ListStore) MoveItemToCategory(ctx context.Context, id, category string) (*model.GroceryItem, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = model.OtherCategory
	}
	return s.patchItem(ctx, "move item", id, model.ItemPatch{Category: &category})
}

func (s *ListStore) DeleteItem(ctx context.Context, id string) error {
	return s.run(s.logger, "delete item", func() error {
		if err := s.remote.DeleteItem(ctx, id); err != nil {
			return err
		}
		s.mu.Lock()
		s.items = slices.DeleteFunc(s.items, func(it model.GroceryItem) bool { return it.ID == id })
		s.mu.Unlock()
		return nil
	})
}

func (s *ListStore) patchList(ctx context.Context, op, id string, p model.ListPatch) (*model.GroceryList, error) {
	var l *model.GroceryList
	err := s.run(s.logger, op, func() error {
		var err error
		l, err = s.remote.UpdateList(ctx, id, p)
		if err != nil {
			return err
		}
		if l.IsArchived {
			s.dropList(l.ID, false)
		} else {
			s.putList(*l)
		}
		return nil
	})
	return l, err
}

// CompleteList records what was spent and marks the list done. There is no
// way to reopen it.
func (s *ListStore) CompleteList(ctx context.Context, id string, totalSpent float64, paymentMethod, receiptURL string) (*model.GroceryList, error) {
	const op = "complete list"
	if totalSpent < 0 {
		err := apperr.Validation(op, "total spent cannot be negative")
		s.fail(op, err)
		return nil, err
	}
	if !grocery.ValidPaymentMethod(paymentMethod) {
		err := apperr.Validation(op, "unknown payment method %q", paymentMethod)
		s.fail(op, err)
		return nil, err
	}
	done := true
	p := model.ListPatch{IsCompleted: &done, TotalSpent: &totalSpent, PaymentMethod: &paymentMethod}
	if receiptURL != "" {
		p.ReceiptURL = &receiptURL
	}
	return s.patchList(ctx, op, id, p)
}

func (s *ListStore) fail(op string, err error) {
	_ = s.run(s.logger, op, func() error { return err })
}

// UploadReceipt stores a receipt image for a list and returns its URL.
func (s *ListStore) UploadReceipt(ctx context.Context, listID, contentType string, body io.Reader) (string, error) {
	var url string
	err := s.run(s.logger, "upload receipt", func() error {
		var err error
		url, err = s.remote.UploadReceipt(ctx, listID, contentType, body)
		return err
	})
	return url, err
}

// UpdateListName renames a list. Blank names are rejected.
func (s *ListStore) UpdateListName(ctx context.Context, id, name string) (*model.GroceryList, error) {
	const op = "rename list"
	name, ok := grocery.NormalizeListName(name)
	if !ok {
		err := apperr.Validation(op, "list name cannot be empty")
		s.fail(op, err)
		return nil, err
	}
	return s.patchList(ctx, op, id, model.ListPatch{Name: &name})
}

// ArchiveList hides a list from the default view after confirmation. Its
// items are kept. It reports whether the list was archived.
func (s *ListStore) ArchiveList(ctx context.Context, id string) (bool, error) {
	if !s.confirmed(ctx, "Archive this list?") {
		return false, nil
	}
	archived := true
	if _, err := s.patchList(ctx, "archive list", id, model.ListPatch{IsArchived: &archived}); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteList permanently removes a list and its items after confirmation.
func (s *ListStore) DeleteList(ctx context.Context, id string) (bool, error) {
	if !s.confirmed(ctx, "Delete this list and all of its items?") {
		return false, nil
	}
	err := s.run(s.logger, "delete list", func() error {
		if _, err := s.remote.DeleteItemsByList(ctx, id); err != nil {
			return err
		}
		if err := s.remote.DeleteList(ctx, id); err != nil {
			return err
		}
		s.dropList(id, true)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ListStore) confirmed(ctx context.Context, prompt string) bool {
	if s.confirm == nil {
		return true
	}
	return s.confirm(ctx, prompt)
}
