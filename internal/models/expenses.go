package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the full API representation, with nested category and tags plus
// the derived read-only fields.
type Expense struct {
	ID                int             `json:"id" db:"id"`
	UserID            int             `json:"-" db:"user_id"`
	Amount            Money           `json:"amount" db:"amount"`
	AmountDisplay     string          `json:"amount_display"`
	TransactionType   string          `json:"transaction_type" db:"transaction_type"`
	Category          Category        `json:"category"`
	Description       string          `json:"description" db:"description"`
	Date              string          `json:"date" db:"date"`
	Tags              []Tag           `json:"tags"`
	RelatedExpenseID  *int            `json:"related_expense" db:"related_expense_id"`
	LenderBorrower    *string         `json:"lender_borrower" db:"lender_borrower"`
	ReceiptImage      *string         `json:"receipt_image" db:"receipt_image"`
	Location          *string         `json:"location" db:"location"`
	PaymentMethod     *string         `json:"payment_method" db:"payment_method"`
	IsRecurring       bool            `json:"is_recurring" db:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval" db:"recurring_interval"`
	IsRecent          bool            `json:"is_recent"`
	IsDebtRelated     bool            `json:"is_debt_related"`
	BalanceEffect     Money           `json:"balance_effect"`
	CreatedAt         string          `json:"created_at" db:"created_at"`
	UpdatedAt         string          `json:"updated_at" db:"updated_at"`
}

// ExpenseRequest is the payload for create and full update. tag_ids replaces
// the whole tag set when present.
type ExpenseRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	TransactionType   string          `json:"transaction_type" validate:"omitempty,oneof=expense income credit debt repayment"`
	CategoryID        int             `json:"category_id" validate:"required"`
	Description       string          `json:"description" validate:"required"`
	Date              string          `json:"date" validate:"required,datetime=2006-01-02"`
	TagIDs            []int           `json:"tag_ids"`
	RelatedExpenseID  *int            `json:"related_expense"`
	LenderBorrower    *string         `json:"lender_borrower" validate:"omitempty,max=100"`
	ReceiptImage      *string         `json:"receipt_image"`
	Location          *string         `json:"location" validate:"omitempty,max=255"`
	PaymentMethod     *string         `json:"payment_method" validate:"omitempty,max=50"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval" validate:"omitempty,oneof=daily weekly monthly yearly"`
}

// ExpensePatch carries only the fields present in a partial update.
type ExpensePatch struct {
	Amount            *decimal.Decimal `json:"amount"`
	TransactionType   *string          `json:"transaction_type" validate:"omitempty,oneof=expense income credit debt repayment"`
	CategoryID        *int             `json:"category_id"`
	Description       *string          `json:"description"`
	Date              *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TagIDs            *[]int           `json:"tag_ids"`
	RelatedExpenseID  *int             `json:"related_expense"`
	LenderBorrower    *string          `json:"lender_borrower" validate:"omitempty,max=100"`
	ReceiptImage      *string          `json:"receipt_image"`
	Location          *string          `json:"location" validate:"omitempty,max=255"`
	PaymentMethod     *string          `json:"payment_method" validate:"omitempty,max=50"`
	IsRecurring       *bool            `json:"is_recurring"`
	RecurringInterval *string          `json:"recurring_interval" validate:"omitempty,oneof=daily weekly monthly yearly"`
}

// RecentWindowDays is the trailing window for the recent listing and the
// is_recent flag. Both use the same boundary: today-6 .. today inclusive.
const RecentWindowDays = 7

// RecentCutoff returns the earliest date (inclusive) counted as recent.
func RecentCutoff(today time.Time) string {
	return today.AddDate(0, 0, -(RecentWindowDays - 1)).Format(time.DateOnly)
}

// IsRecentDate reports whether a stored date falls inside the recent window.
func IsRecentDate(date string, today time.Time) bool {
	return date >= RecentCutoff(today) && date <= today.Format(time.DateOnly)
}

// BalanceEffect returns the signed contribution of a transaction to net
// balance: negative for expense/debt, positive for income/credit. A repayment
// reduces outstanding debt, so it counts as positive.
func BalanceEffect(transactionType string, amount decimal.Decimal) decimal.Decimal {
	switch transactionType {
	case TypeExpense, TypeDebt:
		return amount.Neg()
	case TypeIncome, TypeCredit, TypeRepayment:
		return amount
	}
	return decimal.Zero
}

// FillDerived computes the read-only fields from the stored columns.
func (e *Expense) FillDerived(today time.Time) {
	e.AmountDisplay = "₹" + e.Amount.StringFixed(2)
	e.IsRecent = IsRecentDate(e.Date, today)
	e.IsDebtRelated = e.TransactionType == TypeDebt || e.TransactionType == TypeRepayment
	e.BalanceEffect = Money{Decimal: BalanceEffect(e.TransactionType, e.Amount.Decimal)}
	if e.Tags == nil {
		e.Tags = []Tag{}
	}
}
