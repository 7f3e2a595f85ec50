package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)
	mux.Handle("/login/", uRouter)
	mux.Handle("/logout/", uRouter)
	mux.Handle("/profile/", uRouter)
	mux.Handle("/password-change/", uRouter)

	cRouter := categoriesRouter()
	mux.Handle("/categories/", cRouter)

	tRouter := tagsRouter()
	mux.Handle("/tags/", tRouter)

	eRouter := expensesRouter()
	mux.Handle("/expenses/", eRouter)

	return mux
}
