package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/basket/internal/model"
	"github.com/google/uuid"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var householdID sql.NullString
	err := scanner.Scan(&c.ID, &c.Name, &c.IsDefault, &householdID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if householdID.Valid {
		c.HouseholdID = &householdID.String
	}
	return &c, nil
}

const categoryCols = `id, name, is_default, household_id, created_at`

func (s *CategoryStore) queryCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// ListDefaults returns the global categories in seed order.
func (s *CategoryStore) ListDefaults(ctx context.Context) ([]model.Category, error) {
	return s.queryCategories(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE household_id IS NULL ORDER BY created_at ASC, rowid ASC`,
	)
}

// ListByHousehold returns only the household's custom categories.
func (s *CategoryStore) ListByHousehold(ctx context.Context, householdID string) ([]model.Category, error) {
	return s.queryCategories(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE household_id = ? ORDER BY created_at ASC, rowid ASC`,
		householdID,
	)
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// FindByName looks a name up among the defaults and the household's custom
// categories, case-insensitively.
func (s *CategoryStore) FindByName(ctx context.Context, householdID, name string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryCols+` FROM categories
		 WHERE (household_id IS NULL OR household_id = ?) AND name = ? COLLATE NOCASE
		 ORDER BY is_default DESC LIMIT 1`,
		householdID, name,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) Create(ctx context.Context, householdID, name string) (*model.Category, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, is_default, household_id, created_at) VALUES (?, ?, 0, ?, ?)`,
		id, name, householdID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Rename changes a custom category's name. Default categories are never
// matched.
func (s *CategoryStore) Rename(ctx context.Context, id, name string) (*model.Category, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ? AND is_default = 0`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND is_default = 0`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
