package expenses

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"

	"github.com/shopspring/decimal"
)

// SummaryResponse carries the per-type totals over a user-scoped,
// date-filtered expense set. All sums are decimal-exact; an empty set yields
// zeros, not an error.
type SummaryResponse struct {
	TotalExpenses     models.Money            `json:"total_expenses"`
	TotalIncome       models.Money            `json:"total_income"`
	TotalDebt         models.Money            `json:"total_debt"`
	TotalCredit       models.Money            `json:"total_credit"`
	NetBalance        models.Money            `json:"net_balance"`
	TransactionCount  int                     `json:"transaction_count"`
	CategoryBreakdown map[string]models.Money `json:"category_breakdown"`
}

// SummaryHandler serves GET /expenses/summary/.
func SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	where := "user_id = ?"
	args := []interface{}{userID}
	errs := map[string][]string{}

	if v := r.URL.Query().Get("date_from"); v != "" {
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			errs["date_from"] = append(errs["date_from"], "Date has wrong format. Use YYYY-MM-DD.")
		} else {
			where += " AND date >= ?"
			args = append(args, v)
		}
	}
	if v := r.URL.Query().Get("date_to"); v != "" {
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			errs["date_to"] = append(errs["date_to"], "Date has wrong format. Use YYYY-MM-DD.")
		} else {
			where += " AND date <= ?"
			args = append(args, v)
		}
	}
	if len(errs) > 0 {
		utils.WriteValidationError(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary := SummaryResponse{CategoryBreakdown: map[string]models.Money{}}

	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'expense' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'income' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'debt' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN transaction_type = 'credit' THEN amount END), 0),
			COUNT(*)
		FROM expenses WHERE `+where, args...).
		Scan(&summary.TotalExpenses, &summary.TotalIncome, &summary.TotalDebt, &summary.TotalCredit, &summary.TransactionCount)
	if err != nil {
		utils.Logger.Errorf("error computing summary: %v", err)
		utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
		return
	}

	summary.NetBalance = models.Money{Decimal: summary.TotalIncome.Add(summary.TotalCredit.Decimal).
		Sub(summary.TotalExpenses.Decimal).Sub(summary.TotalDebt.Decimal)}

	// Breakdown covers expense-type rows under active categories only;
	// categories without a matching row are omitted entirely.
	rows, err := db.QueryContext(ctx, `
		SELECT c.name, SUM(e.amount)
		FROM expenses e
		JOIN categories c ON e.category_id = c.id
		WHERE `+where+` AND e.transaction_type = 'expense' AND c.is_active = TRUE
		GROUP BY c.id, c.name
		ORDER BY SUM(e.amount) DESC`, args...)
	if err != nil {
		utils.Logger.Errorf("error computing category breakdown: %v", err)
		utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var total decimal.Decimal
		if err := rows.Scan(&name, &total); err != nil {
			utils.Logger.Errorf("error scanning category breakdown: %v", err)
			utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
			return
		}
		summary.CategoryBreakdown[name] = models.Money{Decimal: total}
	}
	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("error scanning category breakdown: %v", err)
		utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, summary)
}

// RecentHandler serves GET /expenses/recent/: all expenses of the trailing
// seven days (today-6 .. today inclusive), newest first, unpaginated.
func RecentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	today := time.Now()
	cutoff := models.RecentCutoff(today)

	rows, err := db.QueryContext(ctx,
		"SELECT"+expenseColumns+expenseFrom+
			"WHERE e.user_id = ? AND e.date >= ? AND e.date <= ? ORDER BY e.date DESC, e.created_at DESC",
		userID, cutoff, today.Format(time.DateOnly))
	if err != nil {
		utils.Logger.Errorf("error fetching recent expenses: %v", err)
		utils.WriteError(w, "error fetching recent expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		utils.Logger.Errorf("error scanning recent expenses: %v", err)
		utils.WriteError(w, "error fetching recent expenses", http.StatusInternalServerError)
		return
	}

	if err := attachTags(ctx, db, expenses); err != nil {
		utils.Logger.Errorf("error loading expense tags: %v", err)
		utils.WriteError(w, "error fetching recent expenses", http.StatusInternalServerError)
		return
	}

	for i := range expenses {
		expenses[i].FillDerived(today)
	}

	utils.WriteJSON(w, expenses)
}

type DailyTotal struct {
	Date  string       `json:"date"`
	Total models.Money `json:"total"`
	Count int          `json:"count"`
}

type CategoryTotal struct {
	Category string       `json:"category"`
	Color    string       `json:"color"`
	Total    models.Money `json:"total"`
	Count    int          `json:"count"`
}

type MonthlyReportResponse struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	DailyTotals    []DailyTotal    `json:"daily_totals"`
	CategoryTotals []CategoryTotal `json:"category_totals"`
	TotalAmount    models.Money    `json:"total_amount"`
	TotalCount     int             `json:"total_count"`
}

// MonthlyReportHandler serves GET /expenses/monthly_report/. Year and month
// default to the current calendar month.
func MonthlyReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())
	errs := map[string][]string{}

	if v := r.URL.Query().Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err != nil {
			errs["year"] = append(errs["year"], "Enter a number.")
		} else {
			year = n
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if n, err := strconv.Atoi(v); err != nil {
			errs["month"] = append(errs["month"], "Enter a number.")
		} else if n < 1 || n > 12 {
			errs["month"] = append(errs["month"], "Month must be between 1 and 12.")
		} else {
			month = n
		}
	}
	if len(errs) > 0 {
		utils.WriteValidationError(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := MonthlyReportResponse{
		Year:           year,
		Month:          month,
		DailyTotals:    []DailyTotal{},
		CategoryTotals: []CategoryTotal{},
	}

	rows, err := db.QueryContext(ctx, `
		SELECT date, SUM(amount), COUNT(*)
		FROM expenses
		WHERE user_id = ? AND YEAR(date) = ? AND MONTH(date) = ?
		GROUP BY date
		ORDER BY date ASC`, userID, year, month)
	if err != nil {
		utils.Logger.Errorf("error computing daily totals: %v", err)
		utils.WriteError(w, "error computing monthly report", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var d DailyTotal
		if err := rows.Scan(&d.Date, &d.Total, &d.Count); err != nil {
			utils.Logger.Errorf("error scanning daily totals: %v", err)
			utils.WriteError(w, "error computing monthly report", http.StatusInternalServerError)
			return
		}
		report.DailyTotals = append(report.DailyTotals, d)
	}
	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("error scanning daily totals: %v", err)
		utils.WriteError(w, "error computing monthly report", http.StatusInternalServerError)
		return
	}

	catRows, err := db.QueryContext(ctx, `
		SELECT c.name, c.color, SUM(e.amount), COUNT(*)
		FROM expenses e
		JOIN categories c ON e.category_id = c.id
		WHERE e.user_id = ? AND YEAR(e.date) = ? AND MONTH(e.date) = ?
		GROUP BY c.id, c.name, c.color
		ORDER BY SUM(e.amount) DESC`, userID, year, month)
	if err != nil {
		utils.Logger.Errorf("error computing category totals: %v", err)
		utils.WriteError(w, "error computing monthly report", http.StatusInternalServerError)
		return
	}
	defer catRows.Close()

	for catRows.Next() {
		var c CategoryTotal
		if err := catRows.Scan(&c.Category, &c.Color, &c.Total, &c.Count); err != nil {
			utils.Logger.Errorf("error scanning category totals: %v", err)
			utils.WriteError(w, "error computing monthly report", http.StatusInternalServerError)
			return
		}
		report.CategoryTotals = append(report.CategoryTotals, c)
	}
	if err := catRows.Err(); err != nil {
		utils.Logger.Errorf("error scanning category totals: %v", err)
		utils.WriteError(w, "error computing monthly report", http.StatusInternalServerError)
		return
	}

	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE user_id = ? AND YEAR(date) = ? AND MONTH(date) = ?`, userID, year, month).
		Scan(&report.TotalAmount, &report.TotalCount)
	if err != nil {
		utils.Logger.Errorf("error computing monthly totals: %v", err)
		utils.WriteError(w, "error computing monthly report", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, report)
}
