package core

// predefinedCategories are the shared categories seeded by migration. They
// are owned by no user and cannot be renamed through the UI.
var predefinedCategories = map[string]struct{}{
	"Food":           {},
	"Shopping":       {},
	"Rent":           {},
	"Transportation": {},
	"Entertainment":  {},
	"Utilities":      {},
	"Healthcare":     {},
	"Education":      {},
	"Salary":         {},
	"Freelance":      {},
	"Investments":    {},
	"Gifts":          {},
}

// IsCustomCategory reports whether a category name is user-defined rather
// than one of the predefined set. The edit form allows free-text entry only
// for custom categories. An empty name counts as custom.
func IsCustomCategory(name string) bool {
	_, ok := predefinedCategories[name]
	return !ok
}

// PredefinedCategoryNames returns the fixed predefined set, in display order.
func PredefinedCategoryNames() []string {
	return []string{
		"Food", "Shopping", "Rent", "Transportation", "Entertainment",
		"Utilities", "Healthcare", "Education", "Salary",
		"Freelance", "Investments", "Gifts",
	}
}
