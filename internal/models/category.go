package models

// Category is an entry of the fixed transaction category catalogue.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

const (
	CategoryOtherIncome  = "other-income"
	CategoryOtherExpense = "other-expense"
)

var categoryCatalogue = []Category{
	{ID: "salary", Name: "Salary", Type: TransactionTypeIncome, Color: "#22c55e"},
	{ID: "freelance", Name: "Freelance", Type: TransactionTypeIncome, Color: "#06b6d4"},
	{ID: "investments", Name: "Investments", Type: TransactionTypeIncome, Color: "#6366f1"},
	{ID: "business", Name: "Business", Type: TransactionTypeIncome, Color: "#ec4899"},
	{ID: "rental", Name: "Rental", Type: TransactionTypeIncome, Color: "#f59e0b"},
	{ID: CategoryOtherIncome, Name: "Other Income", Type: TransactionTypeIncome, Color: "#64748b"},

	{ID: "housing", Name: "Housing", Type: TransactionTypeExpense, Color: "#ef4444"},
	{ID: "transportation", Name: "Transportation", Type: TransactionTypeExpense, Color: "#f97316"},
	{ID: "groceries", Name: "Groceries", Type: TransactionTypeExpense, Color: "#84cc16"},
	{ID: "utilities", Name: "Utilities", Type: TransactionTypeExpense, Color: "#06b6d4"},
	{ID: "entertainment", Name: "Entertainment", Type: TransactionTypeExpense, Color: "#8b5cf6"},
	{ID: "food", Name: "Food", Type: TransactionTypeExpense, Color: "#f43f5e"},
	{ID: "shopping", Name: "Shopping", Type: TransactionTypeExpense, Color: "#ec4899"},
	{ID: "healthcare", Name: "Healthcare", Type: TransactionTypeExpense, Color: "#14b8a6"},
	{ID: "education", Name: "Education", Type: TransactionTypeExpense, Color: "#6366f1"},
	{ID: "personal", Name: "Personal Care", Type: TransactionTypeExpense, Color: "#d946ef"},
	{ID: "travel", Name: "Travel", Type: TransactionTypeExpense, Color: "#0ea5e9"},
	{ID: "insurance", Name: "Insurance", Type: TransactionTypeExpense, Color: "#64748b"},
	{ID: "gifts", Name: "Gifts & Donations", Type: TransactionTypeExpense, Color: "#f472b6"},
	{ID: "bills", Name: "Bills & Fees", Type: TransactionTypeExpense, Color: "#fb7185"},
	{ID: CategoryOtherExpense, Name: "Other Expenses", Type: TransactionTypeExpense, Color: "#94a3b8"},
}

// AllCategories returns a copy of the catalogue, income categories first.
func AllCategories() []Category {
	out := make([]Category, len(categoryCatalogue))
	copy(out, categoryCatalogue)
	return out
}

// CategoriesForType filters the catalogue by transaction type. An empty type
// returns everything.
func CategoriesForType(transactionType string) []Category {
	if transactionType == "" {
		return AllCategories()
	}

	var out []Category
	for _, c := range categoryCatalogue {
		if c.Type == transactionType {
			out = append(out, c)
		}
	}
	return out
}

func FindCategory(id string) (Category, bool) {
	for _, c := range categoryCatalogue {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func IsValidCategory(id string) bool {
	_, ok := FindCategory(id)
	return ok
}

// FallbackCategory is where uncategorizable transactions of a type land.
func FallbackCategory(transactionType string) string {
	if transactionType == TransactionTypeIncome {
		return CategoryOtherIncome
	}
	return CategoryOtherExpense
}
