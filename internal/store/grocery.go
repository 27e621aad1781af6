package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/basket/internal/model"
	"github.com/google/uuid"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.GroceryList, error) {
	var l model.GroceryList
	var totalSpent sql.NullFloat64
	err := scanner.Scan(
		&l.ID, &l.HouseholdID, &l.Name, &l.WeekOf, &l.IsCompleted,
		&totalSpent, &l.PaymentMethod, &l.ReceiptURL, &l.IsArchived, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if totalSpent.Valid {
		l.TotalSpent = &totalSpent.Float64
	}
	return &l, nil
}

const listCols = `id, household_id, name, week_of, is_completed, total_spent, payment_method, receipt_url, is_archived, created_at`

func (s *GroceryStore) CreateList(ctx context.Context, in model.NewList) (*model.GroceryList, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grocery_lists (id, household_id, name, week_of, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, in.HouseholdID, in.Name, in.WeekOf, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return s.GetList(ctx, id)
}

func (s *GroceryStore) GetList(ctx context.Context, id string) (*model.GroceryList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listCols+` FROM grocery_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// ListLists returns a household's lists, newest first. Archived lists are
// included only when includeArchived is set.
func (s *GroceryStore) ListLists(ctx context.Context, householdID string, includeArchived bool) ([]model.GroceryList, error) {
	query := `SELECT ` + listCols + ` FROM grocery_lists WHERE household_id = ?`
	if !includeArchived {
		query += ` AND is_archived = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.GroceryList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// UpdateList applies the non-nil fields of p.
func (s *GroceryStore) UpdateList(ctx context.Context, id string, p model.ListPatch) (*model.GroceryList, error) {
	var sets []string
	var args []any
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.IsCompleted != nil {
		sets = append(sets, "is_completed = ?")
		args = append(args, *p.IsCompleted)
	}
	if p.TotalSpent != nil {
		sets = append(sets, "total_spent = ?")
		args = append(args, *p.TotalSpent)
	}
	if p.PaymentMethod != nil {
		sets = append(sets, "payment_method = ?")
		args = append(args, *p.PaymentMethod)
	}
	if p.ReceiptURL != nil {
		sets = append(sets, "receipt_url = ?")
		args = append(args, *p.ReceiptURL)
	}
	if p.IsArchived != nil {
		sets = append(sets, "is_archived = ?")
		args = append(args, *p.IsArchived)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := s.db.ExecContext(ctx,
			`UPDATE grocery_lists SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
			args...,
		)
		if err != nil {
			return nil, fmt.Errorf("update list: %w", err)
		}
	}
	return s.GetList(ctx, id)
}

func (s *GroceryStore) DeleteList(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM grocery_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := scanner.Scan(
		&item.ID, &item.ListID, &item.Name, &item.Category, &item.Quantity,
		&item.Unit, &item.IsChecked, &item.AddedBy, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

const itemCols = `id, list_id, name, category, quantity, unit, is_checked, added_by, created_at`

func (s *GroceryStore) CreateItem(ctx context.Context, in model.NewItem, addedBy string) (*model.GroceryItem, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grocery_items (id, list_id, name, category, quantity, unit, is_checked, added_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.ListID, in.Name, in.Category, in.Quantity, in.Unit, in.IsChecked, addedBy, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return s.GetItem(ctx, id)
}

func (s *GroceryStore) GetItem(ctx context.Context, id string) (*model.GroceryItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItems returns a list's items in insertion order.
func (s *GroceryStore) ListItems(ctx context.Context, listID string) ([]model.GroceryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM grocery_items WHERE list_id = ? ORDER BY created_at ASC, rowid ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *GroceryStore) UpdateItem(ctx context.Context, id string, p model.ItemPatch) (*model.GroceryItem, error) {
	var sets []string
	var args []any
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *p.Quantity)
	}
	if p.Unit != nil {
		sets = append(sets, "unit = ?")
		args = append(args, *p.Unit)
	}
	if p.IsChecked != nil {
		sets = append(sets, "is_checked = ?")
		args = append(args, *p.IsChecked)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := s.db.ExecContext(ctx,
			`UPDATE grocery_items SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
			args...,
		)
		if err != nil {
			return nil, fmt.Errorf("update item: %w", err)
		}
	}
	return s.GetItem(ctx, id)
}

func (s *GroceryStore) DeleteItem(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *GroceryStore) DeleteItemsByList(ctx context.Context, listID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE list_id = ?`, listID)
	if err != nil {
		return 0, fmt.Errorf("delete items by list: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// ReassignCategory moves every item in the household's lists whose category
// equals from over to to.
func (s *GroceryStore) ReassignCategory(ctx context.Context, householdID, from, to string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE grocery_items SET category = ?
		 WHERE category = ? COLLATE NOCASE AND list_id IN (SELECT id FROM grocery_lists WHERE household_id = ?)`,
		to, from, householdID,
	)
	if err != nil {
		return 0, fmt.Errorf("reassign category: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
