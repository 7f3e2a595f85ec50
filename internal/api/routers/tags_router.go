package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/tags"
)

func tagsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/tags/{$}", tags.TagsHandler)
	mux.HandleFunc("/tags/{id}/{$}", tags.TagHandler)

	return mux
}
