package domain

import "errors"

var ErrCategoryNotFound = errors.New("category not found")

// MaxCategoryNameLen bounds category names.
const MaxCategoryNameLen = 120

// Category groups transactions by label. Transactions reference categories
// by name only, so deleting a category never touches existing transactions.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Owner Owner  `json:"user_id"`
}
