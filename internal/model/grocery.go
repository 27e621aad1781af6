package model

import "time"

// OtherCategory is the fallback for items whose category no longer exists.
const OtherCategory = "Other"

// DefaultListName is used when a list is created without a name.
const DefaultListName = "Weekly Groceries"

// PaymentMethods lists the payment options offered when completing a list.
var PaymentMethods = []string{"Credit Card", "Debit Card", "Cash"}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsDefault   bool      `json:"is_default"`
	HouseholdID *string   `json:"household_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type GroceryList struct {
	ID            string    `json:"id"`
	HouseholdID   string    `json:"household_id"`
	Name          string    `json:"name"`
	WeekOf        string    `json:"week_of"`
	IsCompleted   bool      `json:"is_completed"`
	TotalSpent    *float64  `json:"total_spent,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	ReceiptURL    string    `json:"receipt_url,omitempty"`
	IsArchived    bool      `json:"is_archived"`
	CreatedAt     time.Time `json:"created_at"`
}

type GroceryItem struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit,omitempty"`
	IsChecked bool      `json:"is_checked"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NewList holds the fields a client supplies when creating a list.
type NewList struct {
	HouseholdID string `json:"household_id"`
	Name        string `json:"name"`
	WeekOf      string `json:"week_of"`
}

// ListPatch is a partial update; nil fields are left unchanged.
type ListPatch struct {
	Name          *string  `json:"name,omitempty"`
	IsCompleted   *bool    `json:"is_completed,omitempty"`
	TotalSpent    *float64 `json:"total_spent,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
	ReceiptURL    *string  `json:"receipt_url,omitempty"`
	IsArchived    *bool    `json:"is_archived,omitempty"`
}

// NewItem holds the fields a client supplies when adding an item.
type NewItem struct {
	ListID    string `json:"list_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit,omitempty"`
	IsChecked bool   `json:"is_checked"`
}

// ItemPatch is a partial update; nil fields are left unchanged.
type ItemPatch struct {
	Name      *string `json:"name,omitempty"`
	Category  *string `json:"category,omitempty"`
	Quantity  *int    `json:"quantity,omitempty"`
	Unit      *string `json:"unit,omitempty"`
	IsChecked *bool   `json:"is_checked,omitempty"`
}
