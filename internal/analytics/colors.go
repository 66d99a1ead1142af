package analytics

import "fintrack/internal/core"

// Fixed chart palette, mirroring the product's color table.
const (
	ColorIncome   = "#10B981"
	ColorExpense  = "#EF4444"
	ColorTransfer = "#3B82F6"

	ColorCurrent    = "#3B82F6"
	ColorSavings    = "#10B981"
	ColorCredit     = "#8B5CF6"
	ColorInvestment = "#F59E0B"
)

// FillForTransactionType maps a transaction type to its chart color.
func FillForTransactionType(t core.TransactionType) string {
	switch t {
	case core.Credit:
		return ColorIncome
	case core.Debit:
		return ColorExpense
	default:
		return ColorTransfer
	}
}

// FillForAccountType maps an account type to its chart color. Unknown types
// (including unresolved accounts) use the Current color.
func FillForAccountType(t core.AccountType) string {
	switch t {
	case core.Current:
		return ColorCurrent
	case core.Savings:
		return ColorSavings
	case core.CreditCard:
		return ColorCredit
	case core.Investment:
		return ColorInvestment
	default:
		return ColorCurrent
	}
}
