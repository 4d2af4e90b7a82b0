package model

// CategoryOther absorbs anything outside the closed taxonomies.
const CategoryOther = "Khác"

// Fixed categories for loan intents. Lending posts as an expense-direction
// record and borrowing as an income-direction record; inverting this
// mapping would silently corrupt balance calculations.
const (
	CategoryLending   = "Cho vay"
	CategoryBorrowing = "Đi vay"
)

// ExpenseCategories is the closed taxonomy for expense-direction records.
var ExpenseCategories = []string{
	"Ăn uống",
	"Di chuyển",
	"Mua sắm",
	"Giải trí",
	"Y tế",
	"Học tập",
	"Nhà cửa",
	CategoryLending,
	CategoryOther,
}

// IncomeCategories is the closed taxonomy for income-direction records.
var IncomeCategories = []string{
	"Lương",
	"Thưởng",
	"Freelance",
	"Kinh doanh",
	"Đầu tư",
	CategoryBorrowing,
	CategoryOther,
}

// NormalizeCategory coerces a category against the taxonomy for the given
// direction. Unrecognized values become CategoryOther rather than failing
// the whole classification.
func NormalizeCategory(category string, direction Direction) string {
	if category == "" {
		return CategoryOther
	}

	valid := ExpenseCategories
	if direction == DirectionIncome {
		valid = IncomeCategories
	}

	for _, c := range valid {
		if c == category {
			return category
		}
	}
	return CategoryOther
}
