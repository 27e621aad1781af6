package backend

import (
	"context"
	"strings"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
)

func (s *Service) DefaultCategories(ctx context.Context) ([]model.Category, error) {
	const op = "list default categories"
	if _, err := caller(ctx, op); err != nil {
		return nil, err
	}
	cats, err := s.categories.ListDefaults(ctx)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	return cats, nil
}

// HouseholdCategories returns only the household's custom categories.
func (s *Service) HouseholdCategories(ctx context.Context, householdID string) ([]model.Category, error) {
	const op = "list household categories"
	if _, err := s.requireMember(ctx, op, householdID); err != nil {
		return nil, err
	}
	cats, err := s.categories.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	return cats, nil
}

// checkCategoryName rejects empty names and names already visible to the
// household, ignoring the category being renamed.
func (s *Service) checkCategoryName(ctx context.Context, op, householdID, name, selfID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation(op, "category name is required")
	}
	existing, err := s.categories.FindByName(ctx, householdID, name)
	if err != nil {
		return "", apperr.Remote(op, err)
	}
	if existing != nil && existing.ID != selfID {
		return "", apperr.Validation(op, "category %q already exists", existing.Name)
	}
	return name, nil
}

func (s *Service) InsertCategory(ctx context.Context, householdID, name string) (*model.Category, error) {
	const op = "add category"
	if _, err := s.requireMember(ctx, op, householdID); err != nil {
		return nil, err
	}
	name, err := s.checkCategoryName(ctx, op, householdID, name, "")
	if err != nil {
		return nil, err
	}
	c, err := s.categories.Create(ctx, householdID, name)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.notify(householdID, "category", "created", c.ID)
	return c, nil
}

// mutableCategory loads a custom category the caller may change.
func (s *Service) mutableCategory(ctx context.Context, op, verb, id string) (*model.Category, error) {
	if _, err := caller(ctx, op); err != nil {
		return nil, err
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	if c == nil {
		return nil, apperr.NotFound(op, "category not found")
	}
	if c.IsDefault || c.HouseholdID == nil {
		return nil, apperr.Validation(op, "default categories cannot be %s", verb)
	}
	if _, err := s.requireMember(ctx, op, *c.HouseholdID); err != nil {
		return nil, apperr.NotFound(op, "category not found")
	}
	return c, nil
}

// UpdateCategory renames a custom category. Items keep the category string
// they were saved with.
func (s *Service) UpdateCategory(ctx context.Context, id, name string) (*model.Category, error) {
	const op = "update category"
	c, err := s.mutableCategory(ctx, op, "modified", id)
	if err != nil {
		return nil, err
	}
	name, err = s.checkCategoryName(ctx, op, *c.HouseholdID, name, c.ID)
	if err != nil {
		return nil, err
	}
	updated, err := s.categories.Rename(ctx, id, name)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	s.notify(*c.HouseholdID, "category", "updated", id)
	return updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	const op = "delete category"
	c, err := s.mutableCategory(ctx, op, "deleted", id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return apperr.Remote(op, err)
	}
	s.notify(*c.HouseholdID, "category", "deleted", id)
	return nil
}

// ReassignItemsCategory moves every item in the household filed under from
// to the existing category to.
func (s *Service) ReassignItemsCategory(ctx context.Context, householdID, from, to string) (int64, error) {
	const op = "reassign items"
	if _, err := s.requireMember(ctx, op, householdID); err != nil {
		return 0, err
	}
	if strings.TrimSpace(from) == "" {
		return 0, apperr.Validation(op, "source category is required")
	}
	target, err := s.categories.FindByName(ctx, householdID, to)
	if err != nil {
		return 0, apperr.Remote(op, err)
	}
	if target == nil {
		return 0, apperr.NotFound(op, "category %q not found", to)
	}
	n, err := s.groceries.ReassignCategory(ctx, householdID, from, target.Name)
	if err != nil {
		return 0, apperr.Remote(op, err)
	}
	if n > 0 {
		s.notify(householdID, "grocery_item", "updated", "")
	}
	return n, nil
}
