package middlewares

import (
	"context"
	"database/sql"
	"net/http"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// Authenticate resolves the caller either from the sessionid cookie or from
// HTTP Basic credentials checked against the users table, and stores userId
// and username on the request context. Inactive users are rejected.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(utils.SessionCookieName); err == nil {
			userID, username, err := utils.ParseToken(cookie.Value)
			if err != nil {
				unauthorized(w, "Invalid or expired session.")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, username)))
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w, "Authentication credentials were not provided.")
			return
		}

		db := sqlconnect.DB
		if db == nil {
			utils.Logger.Error("DB is not initialized")
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		var userID int
		var storedPassword string
		var isActive bool
		err := db.QueryRowContext(r.Context(),
			"SELECT id, password, is_active FROM users WHERE username = ?", username).
			Scan(&userID, &storedPassword, &isActive)
		if err != nil {
			if err == sql.ErrNoRows {
				unauthorized(w, "Invalid username or password.")
				return
			}
			utils.Logger.Errorf("error fetching user for basic auth: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if !isActive {
			unauthorized(w, "User account is inactive.")
			return
		}

		if err := utils.VerifyPassword(password, storedPassword); err != nil {
			unauthorized(w, "Invalid username or password.")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, username)))
	})
}

func withUser(ctx context.Context, userID int, username string) context.Context {
	ctx = context.WithValue(ctx, utils.ContextKey("userId"), userID)
	return context.WithValue(ctx, utils.ContextKey("username"), username)
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="spendtrack"`)
	utils.WriteError(w, detail, http.StatusUnauthorized)
}
