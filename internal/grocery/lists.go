package grocery

import (
	"strings"
	"time"

	"github.com/dukerupert/basket/internal/model"
)

const dateLayout = "2006-01-02"

// WeekOf returns the Monday of t's week as YYYY-MM-DD, in t's location.
func WeekOf(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return monday.Format(dateLayout)
}

// ValidWeekOf reports whether s is a YYYY-MM-DD date.
func ValidWeekOf(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// NormalizeListName trims name and reports whether anything is left.
func NormalizeListName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	return name, name != ""
}

// ActiveLists returns the lists that are neither completed nor archived.
func ActiveLists(lists []model.GroceryList) []model.GroceryList {
	var out []model.GroceryList
	for _, l := range lists {
		if !l.IsCompleted && !l.IsArchived {
			out = append(out, l)
		}
	}
	return out
}

// CompletedLists returns completed, non-archived lists.
func CompletedLists(lists []model.GroceryList) []model.GroceryList {
	var out []model.GroceryList
	for _, l := range lists {
		if l.IsCompleted && !l.IsArchived {
			out = append(out, l)
		}
	}
	return out
}

// SearchHistory filters completed lists by name, case-insensitively.
func SearchHistory(lists []model.GroceryList, query string) []model.GroceryList {
	completed := CompletedLists(lists)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return completed
	}
	var out []model.GroceryList
	for _, l := range completed {
		if strings.Contains(strings.ToLower(l.Name), q) {
			out = append(out, l)
		}
	}
	return out
}

// SpendSummary totals what was spent on completed lists.
type SpendSummary struct {
	Lists     int                `json:"lists"`
	Total     float64            `json:"total"`
	ByPayment map[string]float64 `json:"by_payment"`
}

func Summarize(lists []model.GroceryList) SpendSummary {
	s := SpendSummary{ByPayment: make(map[string]float64)}
	for _, l := range lists {
		if !l.IsCompleted || l.TotalSpent == nil {
			continue
		}
		s.Lists++
		s.Total += *l.TotalSpent
		method := l.PaymentMethod
		if method == "" {
			method = "Unspecified"
		}
		s.ByPayment[method] += *l.TotalSpent
	}
	return s
}

// ValidPaymentMethod reports whether m is one of model.PaymentMethods.
func ValidPaymentMethod(m string) bool {
	for _, pm := range model.PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}
