package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/categories"
)

func categoriesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/categories/{$}", categories.CategoriesHandler)
	mux.HandleFunc("/categories/{id}/{$}", categories.CategoryHandler)

	return mux
}
