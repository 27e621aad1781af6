package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
)

// CategoryStore caches the default categories followed by the active
// household's custom ones.
type CategoryStore struct {
	state
	remote  Remote
	logger  *slog.Logger
	session *SessionStore

	categories []model.Category

	// onReassign runs after items were moved from one category name to
	// another on the server.
	onReassign func(from, to string)
}

func newCategoryStore(remote Remote, session *SessionStore, logger *slog.Logger) *CategoryStore {
	return &CategoryStore{
		remote:  remote,
		session: session,
		logger:  logger.With("component", "category_store"),
	}
}

// Categories returns the cached categories, defaults first.
func (s *CategoryStore) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// Names returns the cached category names in display order.
func (s *CategoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the id of the category with the given name.
func (s *CategoryStore) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c.ID, true
		}
	}
	return "", false
}

func (s *CategoryStore) find(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *CategoryStore) clearCache() {
	s.mu.Lock()
	s.categories = nil
	s.mu.Unlock()
}

func (s *CategoryStore) reset() {
	s.mu.Lock()
	s.categories = nil
	s.pending = 0
	s.err = ""
	s.mu.Unlock()
}

// FetchCategories loads the defaults and, when a household is active, its
// custom categories.
func (s *CategoryStore) FetchCategories(ctx context.Context) error {
	return s.run(s.logger, "fetch categories", func() error {
		return s.fetch(ctx)
	})
}

func (s *CategoryStore) fetch(ctx context.Context) error {
	defaults, err := s.remote.DefaultCategories(ctx)
	if err != nil {
		return err
	}
	categories := slices.Clone(defaults)
	if householdID := s.session.HouseholdID(); householdID != "" {
		custom, err := s.remote.HouseholdCategories(ctx, householdID)
		if err != nil {
			return err
		}
		categories = append(categories, custom...)
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// AddCategory creates a custom category in the active household.
func (s *CategoryStore) AddCategory(ctx context.Context, name string) (*model.Category, error) {
	var c *model.Category
	err := s.run(s.logger, "add category", func() error {
		name = strings.TrimSpace(name)
		if name == "" {
			return apperr.Validation("add category", "category name is required")
		}
		householdID, err := s.session.CurrentHousehold(ctx)
		if err != nil {
			return err
		}
		c, err = s.remote.InsertCategory(ctx, householdID, name)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.categories = append(s.categories, *c)
		s.mu.Unlock()
		return nil
	})
	return c, err
}

// lookup finds a category in the cache, refreshing once on a miss.
func (s *CategoryStore) lookup(ctx context.Context, op, id string) (model.Category, error) {
	if c, ok := s.find(id); ok {
		return c, nil
	}
	if err := s.fetch(ctx); err != nil {
		return model.Category{}, err
	}
	if c, ok := s.find(id); ok {
		return c, nil
	}
	return model.Category{}, apperr.NotFound(op, "category not found")
}

// UpdateCategory renames a custom category. Items already filed under the
// old name keep it.
func (s *CategoryStore) UpdateCategory(ctx context.Context, id, name string) error {
	const op = "update category"
	return s.run(s.logger, op, func() error {
		c, err := s.lookup(ctx, op, id)
		if err != nil {
			return err
		}
		if c.IsDefault {
			return apperr.Validation(op, "default categories cannot be modified")
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return apperr.Validation(op, "category name is required")
		}
		updated, err := s.remote.UpdateCategory(ctx, id, name)
		if err != nil {
			return err
		}
		s.replace(*updated)
		return nil
	})
}

func (s *CategoryStore) replace(c model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			s.categories[i] = c
			return
		}
	}
}

// DeleteCategory moves the category's items to "Other" and then deletes it.
func (s *CategoryStore) DeleteCategory(ctx context.Context, id string) error {
	const op = "delete category"
	return s.run(s.logger, op, func() error {
		c, err := s.lookup(ctx, op, id)
		if err != nil {
			return err
		}
		if c.IsDefault {
			return apperr.Validation(op, "default categories cannot be deleted")
		}
		householdID := s.session.HouseholdID()
		if c.HouseholdID != nil {
			householdID = *c.HouseholdID
		}
		moved, err := s.remote.ReassignItemsCategory(ctx, householdID, c.Name, model.OtherCategory)
		if err != nil {
			return err
		}
		if hook := s.onReassign; hook != nil {
			hook(c.Name, model.OtherCategory)
		}
		if err := s.remote.DeleteCategory(ctx, id); err != nil {
			return err
		}
		s.mu.Lock()
		s.categories = slices.DeleteFunc(s.categories, func(x model.Category) bool { return x.ID == id })
		s.mu.Unlock()
		s.logger.Info("category deleted", "name", c.Name, "items_moved", moved)
		return nil
	})
}
