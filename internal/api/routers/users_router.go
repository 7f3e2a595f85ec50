package routers

import (
	"net/http"

	"spendtrack/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/{$}", auth.RegisterUsersHandler)

	mux.HandleFunc("/login/{$}", auth.LoginHandler)
	mux.HandleFunc("/logout/{$}", auth.LogoutHandler)
	mux.HandleFunc("/profile/{$}", auth.ProfileHandler)
	mux.HandleFunc("/password-change/{$}", auth.PasswordChangeHandler)

	return mux
}
