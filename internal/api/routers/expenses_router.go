package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/{$}", expenses.ExpensesHandler)

	// Literal segments take precedence over {id}, so the aggregate routes
	// never collide with the detail route.
	mux.HandleFunc("/expenses/summary/{$}", expenses.SummaryHandler)
	mux.HandleFunc("/expenses/recent/{$}", expenses.RecentHandler)
	mux.HandleFunc("/expenses/monthly_report/{$}", expenses.MonthlyReportHandler)

	mux.HandleFunc("/expenses/{id}/{$}", expenses.ExpenseHandler)
	mux.HandleFunc("/expenses/{id}/add_tags/{$}", expenses.AddTagsHandler)
	mux.HandleFunc("/expenses/{id}/remove_tags/{$}", expenses.RemoveTagsHandler)

	return mux
}
