package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"spendtrack/internal/api/handlers"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

// RegisterUsersHandler serves POST /users/. Registration is public; the new
// account is active immediately and a welcome email goes out in the
// background.
func RegisterUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req models.RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}
	if req.Password != req.PasswordConfirm {
		utils.WriteValidationError(w, utils.FieldError("password_confirm", "Passwords do not match."))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Logger.Errorf("error hashing password: %v", err)
		utils.WriteError(w, "error registering user", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (username, email, first_name, last_name, password) VALUES (?, ?, ?, ?, ?)",
		req.Username, req.Email, req.FirstName, req.LastName, hashed)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			if strings.Contains(err.Error(), "email") {
				utils.WriteValidationError(w, utils.FieldError("email", "user with this email already exists."))
			} else {
				utils.WriteValidationError(w, utils.FieldError("username", "A user with that username already exists."))
			}
			return
		}
		utils.Logger.Errorf("error inserting user: %v", err)
		utils.WriteError(w, "error registering user", http.StatusInternalServerError)
		return
	}
	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("error reading insert id: %v", err)
		utils.WriteError(w, "error registering user", http.StatusInternalServerError)
		return
	}

	user, err := fetchUser(ctx, db, int(id))
	if err != nil {
		utils.Logger.Errorf("error fetching user: %v", err)
		utils.WriteError(w, "error registering user", http.StatusInternalServerError)
		return
	}

	go func(email, username string) {
		if err := utils.SendWelcomeEmail(email, username); err != nil {
			utils.ErrorHandler(err, "failed to send welcome email")
		}
	}(user.Email, user.Username)

	utils.WriteJSONStatus(w, user, http.StatusCreated)
}

// LoginHandler serves POST /login/ and sets the session cookie. The username
// field also accepts the account email.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req models.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.QueryRowContext(ctx,
		"SELECT id, username, email, first_name, last_name, password, is_active, date_joined FROM users WHERE username = ? OR email = ?",
		req.Username, req.Username).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.Password, &user.IsActive, &user.DateJoined)
	if err == sql.ErrNoRows {
		utils.WriteError(w, "Unable to log in with provided credentials.", http.StatusBadRequest)
		return
	}
	if err != nil {
		utils.Logger.Errorf("error fetching user: %v", err)
		utils.WriteError(w, "error logging in", http.StatusInternalServerError)
		return
	}

	if err := utils.VerifyPassword(req.Password, user.Password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			utils.WriteError(w, "Unable to log in with provided credentials.", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("error verifying password: %v", err)
		utils.WriteError(w, "error logging in", http.StatusInternalServerError)
		return
	}
	if !user.IsActive {
		utils.WriteError(w, "User account is disabled.", http.StatusBadRequest)
		return
	}

	token, err := utils.SignToken(user.ID, user.Username)
	if err != nil {
		utils.Logger.Errorf("error signing session token: %v", err)
		utils.WriteError(w, "error logging in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, user)
}

// LogoutHandler serves POST /logout/ by expiring the session cookie. The
// token itself stays valid until its own expiry; logout is a client-side
// affair.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, map[string]string{"detail": "Successfully logged out."})
}

// ProfileHandler serves GET, PUT and PATCH on /profile/ for the
// authenticated user.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getProfile(w, r)
	case http.MethodPut, http.MethodPatch:
		updateProfile(w, r, r.Method == http.MethodPut)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func getProfile(w http.ResponseWriter, r *http.Request) {
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

	user, err := fetchUser(ctx, db, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching user: %v", err)
		utils.WriteError(w, "error fetching profile", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, user)
}

func updateProfile(w http.ResponseWriter, r *http.Request, full bool) {
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

	var patch models.ProfilePatch
	if err := handlers.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fields := handlers.ValidateStruct(patch); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}
	if full {
		errs := map[string][]string{}
		if patch.Username == nil {
			errs["username"] = append(errs["username"], "This field is required.")
		}
		if patch.Email == nil {
			errs["email"] = append(errs["email"], "This field is required.")
		}
		if len(errs) > 0 {
			utils.WriteValidationError(w, errs)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var sets []string
	var args []interface{}
	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Username != nil {
		appendSet("username", *patch.Username)
	}
	if patch.Email != nil {
		appendSet("email", *patch.Email)
	}
	if patch.FirstName != nil {
		appendSet("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		appendSet("last_name", *patch.LastName)
	}

	if len(sets) > 0 {
		args = append(args, userID)
		_, err := db.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			if strings.Contains(err.Error(), "Duplicate entry") {
				if strings.Contains(err.Error(), "email") {
					utils.WriteValidationError(w, utils.FieldError("email", "user with this email already exists."))
				} else {
					utils.WriteValidationError(w, utils.FieldError("username", "A user with that username already exists."))
				}
				return
			}
			utils.Logger.Errorf("error updating user: %v", err)
			utils.WriteError(w, "error updating profile", http.StatusInternalServerError)
			return
		}
	}

	user, err := fetchUser(ctx, db, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching user: %v", err)
		utils.WriteError(w, "error updating profile", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, user)
}

// PasswordChangeHandler serves POST /password-change/ for the authenticated
// user.
func PasswordChangeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	var req models.PasswordChangeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		utils.WriteValidationError(w, utils.FieldError("new_password_confirm", "Passwords do not match."))
		return
	}
	if req.NewPassword == req.OldPassword {
		utils.WriteValidationError(w, utils.FieldError("new_password", "New password must be different from the old password."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var current string
	err := db.QueryRowContext(ctx, "SELECT password FROM users WHERE id = ?", userID).Scan(&current)
	if err != nil {
		utils.Logger.Errorf("error fetching user: %v", err)
		utils.WriteError(w, "error changing password", http.StatusInternalServerError)
		return
	}

	if err := utils.VerifyPassword(req.OldPassword, current); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			utils.WriteValidationError(w, utils.FieldError("old_password", "Old password is incorrect."))
			return
		}
		utils.Logger.Errorf("error verifying password: %v", err)
		utils.WriteError(w, "error changing password", http.StatusInternalServerError)
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Logger.Errorf("error hashing password: %v", err)
		utils.WriteError(w, "error changing password", http.StatusInternalServerError)
		return
	}

	_, err = db.ExecContext(ctx,
		"UPDATE users SET password = ?, password_changed_at = NOW() WHERE id = ?", hashed, userID)
	if err != nil {
		utils.Logger.Errorf("error updating password: %v", err)
		utils.WriteError(w, "error changing password", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]string{"detail": "Password changed successfully."})
}

func fetchUser(ctx context.Context, db *sql.DB, id int) (models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx,
		"SELECT id, username, email, first_name, last_name, is_active, date_joined FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.IsActive, &user.DateJoined)
	return user, err
}
