package expenses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpense(t *testing.T) {
	t.Run("amount must be positive", func(t *testing.T) {
		newMockDB(t)

		body := `{"amount":"0","category_id":2,"description":"Lunch","date":"2026-08-28"}`
		r := authedRequest("POST", "/expenses/", body, 7)
		w := httptest.NewRecorder()

		ExpensesHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Amount must be greater than zero."}, resp["amount"])
	})

	t.Run("transaction type must match the category type", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT transaction_type FROM categories WHERE id = ? AND is_active = TRUE")).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"transaction_type"}).AddRow("income"))

		body := `{"amount":"50","transaction_type":"expense","category_id":2,"description":"Lunch","date":"2026-08-28"}`
		r := authedRequest("POST", "/expenses/", body, 7)
		w := httptest.NewRecorder()

		ExpensesHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Transaction type must match category type (Income)."}, resp["transaction_type"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repayment is allowed against a debt category", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT transaction_type FROM categories WHERE id = ? AND is_active = TRUE")).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows([]string{"transaction_type"}).AddRow("debt"))

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
			WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectCommit()

		mock.ExpectQuery("SELECT(.|\n)+FROM expenses e JOIN categories c").
			WithArgs(11, 7).
			WillReturnRows(sqlmock.NewRows([]string{
				"e.id", "e.user_id", "e.amount", "e.transaction_type", "e.description", "e.date",
				"e.related_expense_id", "e.lender_borrower", "e.receipt_image", "e.location",
				"e.payment_method", "e.is_recurring", "e.recurring_interval", "e.created_at", "e.updated_at",
				"c.id", "c.name", "c.description", "c.color", "c.icon", "c.transaction_type",
				"c.is_active", "c.created_at", "c.updated_at",
			}).AddRow(
				11, 7, "500.00", "repayment", "Loan payback", "2026-08-28",
				nil, nil, nil, nil,
				nil, false, nil, "2026-08-28 12:00:00", "2026-08-28 12:00:00",
				4, "Loans", nil, "#9c27b0", nil, "debt",
				true, "2026-08-01 09:00:00", "2026-08-01 09:00:00",
			))

		mock.ExpectQuery("SELECT et.expense_id, t.id, t.name").
			WithArgs(11).
			WillReturnRows(sqlmock.NewRows([]string{
				"et.expense_id", "t.id", "t.name", "t.color", "t.user_id", "t.created_at"}))

		body := `{"amount":"500","transaction_type":"repayment","category_id":4,"description":"Loan payback","date":"2026-08-28"}`
		r := authedRequest("POST", "/expenses/", body, 7)
		w := httptest.NewRecorder()

		ExpensesHandler(w, r)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "repayment", resp["transaction_type"])
		assert.Equal(t, true, resp["is_debt_related"])
		// A repayment reduces outstanding debt, so its balance effect is
		// positive.
		assert.Equal(t, "500.00", resp["balance_effect"])
		assert.Equal(t, "₹500.00", resp["amount_display"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("omitted transaction type inherits the category type", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT transaction_type FROM categories WHERE id = ? AND is_active = TRUE")).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"transaction_type"}).AddRow("income"))

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
			WithArgs(7, sqlmock.AnyArg(), "income", 2, "Salary", "2026-08-28",
				nil, nil, nil, nil, nil, false, nil).
			WillReturnResult(sqlmock.NewResult(12, 1))
		mock.ExpectCommit()

		mock.ExpectQuery("SELECT(.|\n)+FROM expenses e JOIN categories c").
			WithArgs(12, 7).
			WillReturnRows(sqlmock.NewRows([]string{
				"e.id", "e.user_id", "e.amount", "e.transaction_type", "e.description", "e.date",
				"e.related_expense_id", "e.lender_borrower", "e.receipt_image", "e.location",
				"e.payment_method", "e.is_recurring", "e.recurring_interval", "e.created_at", "e.updated_at",
				"c.id", "c.name", "c.description", "c.color", "c.icon", "c.transaction_type",
				"c.is_active", "c.created_at", "c.updated_at",
			}).AddRow(
				12, 7, "90000.00", "income", "Salary", "2026-08-28",
				nil, nil, nil, nil,
				nil, false, nil, "2026-08-28 12:00:00", "2026-08-28 12:00:00",
				2, "Salary", nil, "#4caf50", nil, "income",
				true, "2026-08-01 09:00:00", "2026-08-01 09:00:00",
			))

		mock.ExpectQuery("SELECT et.expense_id, t.id, t.name").
			WithArgs(12).
			WillReturnRows(sqlmock.NewRows([]string{
				"et.expense_id", "t.id", "t.name", "t.color", "t.user_id", "t.created_at"}))

		body := `{"amount":"90000","category_id":2,"description":"Salary","date":"2026-08-28"}`
		r := authedRequest("POST", "/expenses/", body, 7)
		w := httptest.NewRecorder()

		ExpensesHandler(w, r)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "income", resp["transaction_type"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteExpense(t *testing.T) {
	t.Run("non-owner delete reads as absent", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM expenses WHERE id = ? AND user_id = ?")).
			WithArgs(10, 7).
			WillReturnResult(sqlmock.NewResult(0, 0))

		r := authedRequest("DELETE", "/expenses/10/", "", 7)
		r.SetPathValue("id", "10")
		w := httptest.NewRecorder()

		ExpenseHandler(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
