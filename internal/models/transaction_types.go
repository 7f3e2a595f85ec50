package models

// Transaction types shared by categories and expenses. Categories never carry
// the repayment type; it only exists on expenses, linked back to a debt.
const (
	TypeExpense   = "expense"
	TypeIncome    = "income"
	TypeCredit    = "credit"
	TypeDebt      = "debt"
	TypeRepayment = "repayment"
)

var CategoryTransactionTypes = []string{TypeExpense, TypeIncome, TypeCredit, TypeDebt}

var ExpenseTransactionTypes = []string{TypeExpense, TypeIncome, TypeCredit, TypeDebt, TypeRepayment}

func IsExpenseTransactionType(t string) bool {
	for _, v := range ExpenseTransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}
