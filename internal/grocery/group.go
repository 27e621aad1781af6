package grocery

import (
	"strings"

	"github.com/dukerupert/basket/internal/model"
)

// CategoryGroup is one section of a list view.
type CategoryGroup struct {
	Category string              `json:"category"`
	Items    []model.GroceryItem `json:"items"`
}

// GroupByCategory buckets items under the given categories, in category
// order. Items whose category matches no known name are shown under
// "Other" without being modified. Empty groups are omitted.
func GroupByCategory(items []model.GroceryItem, categories []model.Category) []CategoryGroup {
	index := make(map[string]int, len(categories)+1)
	var groups []CategoryGroup
	for _, c := range categories {
		if _, ok := index[c.Name]; ok {
			continue
		}
		index[c.Name] = len(groups)
		groups = append(groups, CategoryGroup{Category: c.Name})
	}
	if _, ok := index[model.OtherCategory]; !ok {
		index[model.OtherCategory] = len(groups)
		groups = append(groups, CategoryGroup{Category: model.OtherCategory})
	}

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = index[model.OtherCategory]
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Items) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// ItemsForList filters items down to one list, preserving order.
func ItemsForList(items []model.GroceryItem, listID string) []model.GroceryItem {
	var out []model.GroceryItem
	for _, item := range items {
		if item.ListID == listID {
			out = append(out, item)
		}
	}
	return out
}

// SearchItems returns items whose name contains query, case-insensitively.
// An empty query matches everything.
func SearchItems(items []model.GroceryItem, query string) []model.GroceryItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	var out []model.GroceryItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			out = append(out, item)
		}
	}
	return out
}

// Progress reports how many of the items are checked.
func Progress(items []model.GroceryItem) (checked, total int) {
	for _, item := range items {
		if item.IsChecked {
			checked++
		}
	}
	return checked, len(items)
}
