package backend

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/grocery"
	"github.com/dukerupert/basket/internal/model"
	"github.com/dukerupert/basket/internal/receipt"
)

// visibleList loads a list in one of the caller's households.
func (s *Service) visibleList(ctx context.Context, op, id string) (*model.GroceryList, error) {
	if _, err := caller(ctx, op); err != nil {
		return nil, err
	}
	l, err := s.groceries.GetList(ctx, id)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if l == nil {
		return nil, apperr.NotFound(op, "list not found")
	}
	if _, err := s.requireMember(ctx, op, l.HouseholdID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound(op, "list not found")
		}
		return nil, err
	}
	return l, nil
}

// visibleItem loads an item whose list the caller can see.
func (s *Service) visibleItem(ctx context.Context, op, id string) (*model.GroceryItem, *model.GroceryList, error) {
	if _, err := caller(ctx, op); err != nil {
		return nil, nil, err
	}
	item, err := s.groceries.GetItem(ctx, id)
	if err != nil {
		return nil, nil, apperr.Remote(op, err)
	}
	if item == nil {
		return nil, nil, apperr.NotFound(op, "item not found")
	}
	l, err := s.visibleList(ctx, op, item.ListID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil, apperr.NotFound(op, "item not found")
		}
		return nil, nil, err
	}
	return item, l, nil
}

// Lists returns the household's lists newest first.
func (s *Service) Lists(ctx context.Context, householdID string, includeArchived bool) ([]model.GroceryList, error) {
	const op = "fetch lists"
	if _, err := s.requireMember(ctx, op, householdID); err != nil {
		return nil, err
	}
	lists, err := s.groceries.ListLists(ctx, householdID, includeArchived)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	return lists, nil
}

func (s *Service) GetList(ctx context.Context, id string) (*model.GroceryList, error) {
	return s.visibleList(ctx, "get list", id)
}

// InsertList creates an active list. A blank name becomes the default list
// name and a blank week_of becomes the current week's Monday.
func (s *Service) InsertList(ctx context.Context, in model.NewList) (*model.GroceryList, error) {
	const op = "create list"
	if _, err := s.requireMember(ctx, op, in.HouseholdID); err != nil {
		return nil, err
	}
	name, ok := grocery.NormalizeListName(in.Name)
	if !ok {
		name = model.DefaultListName
	}
	in.Name = name
	if in.WeekOf == "" {
		in.WeekOf = grocery.WeekOf(time.Now())
	} else if !grocery.ValidWeekOf(in.WeekOf) {
		return nil, apperr.Validation(op, "week_of must be a YYYY-MM-DD date")
	}
	l, err := s.groceries.CreateList(ctx, in)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.notify(l.HouseholdID, "grocery_list", "created", l.ID)
	return l, nil
}

// UpdateList applies a partial update. Completion is final: a completed
// list can be renamed, archived or given a receipt, but not reopened and its
// spend is fixed.
func (s *Service) UpdateList(ctx context.Context, id string, p model.ListPatch) (*model.GroceryList, error) {
	const op = "update list"
	l, err := s.visibleList(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if l.IsCompleted {
		if p.IsCompleted != nil && !*p.IsCompleted {
			return nil, apperr.Validation(op, "completed lists cannot be reopened")
		}
		if p.TotalSpent != nil || p.PaymentMethod != nil {
			return nil, apperr.Validation(op, "list is already completed")
		}
	}
	if p.Name != nil {
		name, ok := grocery.NormalizeListName(*p.Name)
		if !ok {
			return nil, apperr.Validation(op, "list name cannot be empty")
		}
		p.Name = &name
	}
	if p.TotalSpent != nil && *p.TotalSpent < 0 {
		return nil, apperr.Validation(op, "total spent cannot be negative")
	}
	if p.PaymentMethod != nil && *p.PaymentMethod != "" && !grocery.ValidPaymentMethod(*p.PaymentMethod) {
		return nil, apperr.Validation(op, "payment method must be one of %s", strings.Join(model.PaymentMethods, ", "))
	}
	updated, err := s.groceries.UpdateList(ctx, id, p)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.notify(l.HouseholdID, "grocery_list", "updated", id)
	return updated, nil
}

// DeleteList removes the list and its items. A stored receipt is removed on
// a best-effort basis.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	const op = "delete list"
	l, err := s.visibleList(ctx, op, id)
	if err != nil {
		return err
	}
	if err := s.groceries.DeleteList(ctx, id); err != nil {
		return apperr.Remote(op, err)
	}
	if s.receipts != nil && l.ReceiptURL != "" {
		if err := s.receipts.Delete(ctx, l.ReceiptURL); err != nil {
			s.logger.Warn("delete receipt", "list_id", id, "error", err)
		}
	}
	s.notify(l.HouseholdID, "grocery_list", "deleted", id)
	return nil
}

// UploadReceipt stores a receipt image for the list and returns its URL. The
// list itself is not modified; callers record the URL when completing it.
func (s *Service) UploadReceipt(ctx context.Context, listID, contentType string, body io.Reader) (string, error) {
	const op = "upload receipt"
	l, err := s.visibleList(ctx, op, listID)
	if err != nil {
		return "", err
	}
	if s.receipts == nil || !s.receipts.Configured() {
		return "", apperr.Validation(op, "receipt uploads are not enabled on this server")
	}
	url, err := s.receipts.Upload(ctx, l.HouseholdID, l.ID, contentType, body)
	switch {
	case errors.Is(err, receipt.ErrUnsupportedType),
		errors.Is(err, receipt.ErrTooLarge),
		errors.Is(err, receipt.ErrEmpty):
		return "", apperr.Validation(op, "%s", err.Error())
	case err != nil:
		return "", apperr.Remote(op, err)
	}
	return url, nil
}

// Items returns a list's items. Lists that do not exist or belong to
// another household yield no items.
func (s *Service) Items(ctx context.Context, listID string) ([]model.GroceryItem, error) {
	const op = "fetch items"
	_, err := s.visibleList(ctx, op, listID)
	if apperr.Is(err, apperr.KindNotFound) {
		return []model.GroceryItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := s.groceries.ListItems(ctx, listID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if items == nil {
		items = []model.GroceryItem{}
	}
	return items, nil
}

// GetItem returns an item whose list the caller can see.
func (s *Service) GetItem(ctx context.Context, id string) (*model.GroceryItem, error) {
	item, _, err := s.visibleItem(ctx, "get item", id)
	return item, err
}

// InsertItem adds an item to a list. A blank category is filled in from the
// item name.
func (s *Service) InsertItem(ctx context.Context, in model.NewItem) (*model.GroceryItem, error) {
	const op = "add item"
	l, err := s.visibleList(ctx, op, in.ListID)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.Validation(op, "item name is required")
	}
	if in.Quantity < 1 {
		return nil, apperr.Validation(op, "quantity must be at least 1")
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = grocery.Categorize(in.Name)
	}
	in.Unit = strings.TrimSpace(in.Unit)

	ac, _ := caller(ctx, op)
	item, err := s.groceries.CreateItem(ctx, in, ac.UserID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.notify(l.HouseholdID, "grocery_item", "created", item.ID)
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, p model.ItemPatch) (*model.GroceryItem, error) {
	const op = "update item"
	_, l, err := s.visibleItem(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Validation(op, "item name is required")
		}
		p.Name = &name
	}
	if p.Category != nil {
		category := strings.TrimSpace(*p.Category)
		if category == "" {
			return nil, apperr.Validation(op, "category is required")
		}
		p.Category = &category
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		return nil, apperr.Validation(op, "quantity must be at least 1")
	}
	updated, err := s.groceries.UpdateItem(ctx, id, p)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.notify(l.HouseholdID, "grocery_item", "updated", id)
	return updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	const op = "delete item"
	_, l, err := s.visibleItem(ctx, op, id)
	if err != nil {
		return err
	}
	if err := s.groceries.DeleteItem(ctx, id); err != nil {
		return apperr.Remote(op, err)
	}
	s.notify(l.HouseholdID, "grocery_item", "deleted", id)
	return nil
}

func (s *Service) DeleteItemsByList(ctx context.Context, listID string) (int64, error) {
	const op = "delete items"
	l, err := s.visibleList(ctx, op, listID)
	if err != nil {
		return 0, err
	}
	n, err := s.groceries.DeleteItemsByList(ctx, listID)
	if err != nil {
		return 0, apperr.Remote(op, err)
	}
	if n > 0 {
		s.notify(l.HouseholdID, "grocery_item", "deleted", "")
	}
	return n, nil
}
