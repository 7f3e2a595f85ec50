package expenses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryHandler(t *testing.T) {
	t.Run("totals and net balance", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery("COALESCE\\(SUM\\(CASE WHEN transaction_type = 'expense'").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"expenses", "income", "debt", "credit", "count"}).
				AddRow("150.00", "1000.00", "200.00", "50.00", 9))

		mock.ExpectQuery("SELECT c.name, SUM\\(e.amount\\)").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"name", "total"}).
				AddRow("Food", "90.00").
				AddRow("Transport", "60.00"))

		r := authedRequest("GET", "/expenses/summary/", "", 7)
		w := httptest.NewRecorder()

		SummaryHandler(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			TotalExpenses     string            `json:"total_expenses"`
			TotalIncome       string            `json:"total_income"`
			NetBalance        string            `json:"net_balance"`
			TransactionCount  int               `json:"transaction_count"`
			CategoryBreakdown map[string]string `json:"category_breakdown"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.Equal(t, "150.00", body.TotalExpenses)
		assert.Equal(t, "1000.00", body.TotalIncome)
		// 1000 + 50 - 150 - 200
		assert.Equal(t, "700.00", body.NetBalance)
		assert.Equal(t, 9, body.TransactionCount)
		assert.Equal(t, map[string]string{"Food": "90.00", "Transport": "60.00"}, body.CategoryBreakdown)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty data yields zeros", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery("COALESCE\\(SUM\\(CASE WHEN transaction_type = 'expense'").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"expenses", "income", "debt", "credit", "count"}).
				AddRow("0", "0", "0", "0", 0))

		mock.ExpectQuery("SELECT c.name, SUM\\(e.amount\\)").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))

		r := authedRequest("GET", "/expenses/summary/", "", 7)
		w := httptest.NewRecorder()

		SummaryHandler(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			NetBalance        string            `json:"net_balance"`
			TransactionCount  int               `json:"transaction_count"`
			CategoryBreakdown map[string]string `json:"category_breakdown"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "0.00", body.NetBalance)
		assert.Equal(t, 0, body.TransactionCount)
		assert.Empty(t, body.CategoryBreakdown)
	})

	t.Run("malformed date range", func(t *testing.T) {
		newMockDB(t)

		r := authedRequest("GET", "/expenses/summary/?date_from=2026-13-45", "", 7)
		w := httptest.NewRecorder()

		SummaryHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"Date has wrong format. Use YYYY-MM-DD."}, body["date_from"])
	})
}

func TestMonthlyReportHandler(t *testing.T) {
	t.Run("month out of range", func(t *testing.T) {
		newMockDB(t)

		r := authedRequest("GET", "/expenses/monthly_report/?year=2026&month=13", "", 7)
		w := httptest.NewRecorder()

		MonthlyReportHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"Month must be between 1 and 12."}, body["month"])
	})

	t.Run("groups by day and category", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery("SELECT date, SUM\\(amount\\), COUNT\\(\\*\\)").
			WithArgs(7, 2026, 8).
			WillReturnRows(sqlmock.NewRows([]string{"date", "total", "count"}).
				AddRow("2026-08-01", "120.00", 2).
				AddRow("2026-08-15", "80.00", 1))

		mock.ExpectQuery("SELECT c.name, c.color, SUM\\(e.amount\\), COUNT\\(\\*\\)").
			WithArgs(7, 2026, 8).
			WillReturnRows(sqlmock.NewRows([]string{"name", "color", "total", "count"}).
				AddRow("Food", "#ff5722", "150.00", 2).
				AddRow("Transport", "#2196f3", "50.00", 1))

		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\), COUNT\\(\\*\\)").
			WithArgs(7, 2026, 8).
			WillReturnRows(sqlmock.NewRows([]string{"total", "count"}).AddRow("200.00", 3))

		r := authedRequest("GET", "/expenses/monthly_report/?year=2026&month=8", "", 7)
		w := httptest.NewRecorder()

		MonthlyReportHandler(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Year        int `json:"year"`
			Month       int `json:"month"`
			DailyTotals []struct {
				Date  string `json:"date"`
				Total string `json:"total"`
				Count int    `json:"count"`
			} `json:"daily_totals"`
			CategoryTotals []struct {
				Category string `json:"category"`
				Color    string `json:"color"`
			} `json:"category_totals"`
			TotalAmount string `json:"total_amount"`
			TotalCount  int    `json:"total_count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.Equal(t, 2026, body.Year)
		assert.Equal(t, 8, body.Month)
		require.Len(t, body.DailyTotals, 2)
		assert.Equal(t, "2026-08-01", body.DailyTotals[0].Date)
		assert.Equal(t, "120.00", body.DailyTotals[0].Total)
		require.Len(t, body.CategoryTotals, 2)
		assert.Equal(t, "Food", body.CategoryTotals[0].Category)
		assert.Equal(t, "#ff5722", body.CategoryTotals[0].Color)
		assert.Equal(t, "200.00", body.TotalAmount)
		assert.Equal(t, 3, body.TotalCount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
