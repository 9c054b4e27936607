package models

// Fixed category set for Koinsave transactions
const (
	CategoryIncome         = "income"
	CategoryTransfer       = "transfer"
	CategoryHousing        = "housing"
	CategoryUtilities      = "utilities"
	CategoryFood           = "food"
	CategoryShopping       = "shopping"
	CategorySavings        = "savings"
	CategoryEntertainment  = "entertainment"
	CategoryTransportation = "transportation"
	CategoryHealthcare     = "healthcare"
	CategoryEducation      = "education"
	CategoryOther          = "other"
)

// AllCategories returns all valid category constants
func AllCategories() []string {
	return []string{
		CategoryIncome,
		CategoryTransfer,
		CategoryHousing,
		CategoryUtilities,
		CategoryFood,
		CategoryShopping,
		CategorySavings,
		CategoryEntertainment,
		CategoryTransportation,
		CategoryHealthcare,
		CategoryEducation,
		CategoryOther,
	}
}

// IsValidCategory checks if a category string is valid
func IsValidCategory(category string) bool {
	for _, validCategory := range AllCategories() {
		if category == validCategory {
			return true
		}
	}
	return false
}
