package categories

import (
	"context"
	"database/sql"
	"net/http"
	"spendtrack/internal/api/handlers"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
	"strconv"
	"strings"
	"time"
)

var orderingFields = map[string]string{
	"name":             "name",
	"transaction_type": "transaction_type",
	"created_at":       "created_at",
}

const defaultOrdering = "transaction_type ASC, name ASC"

// CategoriesHandler serves the /categories/ collection.
func CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listCategories(w, r)
	case http.MethodPost:
		createCategory(w, r)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// CategoryHandler serves a single /categories/{id}/ resource.
func CategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		getCategory(w, r, id)
	case http.MethodPut:
		updateCategory(w, r, id)
	case http.MethodPatch:
		patchCategory(w, r, id)
	case http.MethodDelete:
		deactivateCategory(w, r, id)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func listCategories(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	where := "WHERE is_active = TRUE"
	args := []interface{}{}

	if t := r.URL.Query().Get("type"); t != "" {
		where += " AND transaction_type = ?"
		args = append(args, t)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories "+where, args...).Scan(&count); err != nil {
		utils.Logger.Errorf("error counting categories: %v", err)
		utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
		return
	}

	page, pageSize := utils.GetPaginationParams(r)
	orderBy := handlers.OrderingClause(r.URL.Query().Get("ordering"), orderingFields, defaultOrdering)

	query := `
		SELECT id, name, description, color, icon, transaction_type, is_active, created_at, updated_at
		FROM categories ` + where + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching categories: %v", err)
		utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		err = rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.TransactionType, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			utils.Logger.Errorf("error scanning category: %v", err)
			utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
			return
		}
		categories = append(categories, c)
	}

	utils.WriteJSON(w, utils.NewPage(r, count, page, pageSize, categories))
}

func createCategory(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req models.CategoryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if fields := handlers.ValidateStruct(req); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}

	if req.Color == "" {
		req.Color = "#007bff"
	}
	if req.TransactionType == "" {
		req.TransactionType = models.TypeExpense
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, `
		INSERT INTO categories (name, description, color, icon, transaction_type, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		req.Name, req.Description, req.Color, req.Icon, req.TransactionType, isActive)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteValidationError(w, utils.FieldError("name", "A category with this name already exists."))
			return
		}
		utils.Logger.Errorf("error creating category: %v", err)
		utils.WriteError(w, "error creating category", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "error creating category", http.StatusInternalServerError)
		return
	}

	category, err := fetchCategory(ctx, db, int(id))
	if err != nil {
		utils.Logger.Errorf("error fetching created category: %v", err)
		utils.WriteError(w, "error creating category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, category, http.StatusCreated)
}

func getCategory(w http.ResponseWriter, r *http.Request, id int) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	category, err := fetchCategory(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "Not found.", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching category: %v", err)
		utils.WriteError(w, "error fetching category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, category)
}

func updateCategory(w http.ResponseWriter, r *http.Request, id int) {
	var req models.CategoryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if fields := handlers.ValidateStruct(req); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}

	if req.Color == "" {
		req.Color = "#007bff"
	}
	if req.TransactionType == "" {
		req.TransactionType = models.TypeExpense
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	applyCategoryUpdate(w, r, id, `
		UPDATE categories
		SET name = ?, description = ?, color = ?, icon = ?, transaction_type = ?, is_active = ?
		WHERE id = ? AND is_active = TRUE`,
		req.Name, req.Description, req.Color, req.Icon, req.TransactionType, isActive, id)
}

func patchCategory(w http.ResponseWriter, r *http.Request, id int) {
	var patch models.CategoryPatch
	if err := handlers.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if fields := handlers.ValidateStruct(patch); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}

	set := []string{}
	args := []interface{}{}

	if patch.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Color != nil {
		set = append(set, "color = ?")
		args = append(args, *patch.Color)
	}
	if patch.Icon != nil {
		set = append(set, "icon = ?")
		args = append(args, *patch.Icon)
	}
	if patch.TransactionType != nil {
		set = append(set, "transaction_type = ?")
		args = append(args, *patch.TransactionType)
	}
	if patch.IsActive != nil {
		set = append(set, "is_active = ?")
		args = append(args, *patch.IsActive)
	}

	if len(set) == 0 {
		getCategory(w, r, id)
		return
	}

	args = append(args, id)
	applyCategoryUpdate(w, r, id,
		"UPDATE categories SET "+strings.Join(set, ", ")+" WHERE id = ? AND is_active = TRUE",
		args...)
}

func applyCategoryUpdate(w http.ResponseWriter, r *http.Request, id int, query string, args ...interface{}) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM categories WHERE id = ? AND is_active = TRUE)", id).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("error checking category: %v", err)
		utils.WriteError(w, "error updating category", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteValidationError(w, utils.FieldError("name", "A category with this name already exists."))
			return
		}
		utils.Logger.Errorf("error updating category: %v", err)
		utils.WriteError(w, "error updating category", http.StatusInternalServerError)
		return
	}

	// Fetched without the active filter so an update that deactivates still
	// returns the resulting row.
	var category models.Category
	err = db.QueryRowContext(ctx, `
		SELECT id, name, description, color, icon, transaction_type, is_active, created_at, updated_at
		FROM categories WHERE id = ?`, id).
		Scan(&category.ID, &category.Name, &category.Description, &category.Color, &category.Icon,
			&category.TransactionType, &category.IsActive, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		utils.Logger.Errorf("error fetching updated category: %v", err)
		utils.WriteError(w, "error updating category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, category)
}

// Categories are never hard-deleted; delete deactivates so historical
// expenses keep their reference.
func deactivateCategory(w http.ResponseWriter, r *http.Request, id int) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "UPDATE categories SET is_active = FALSE WHERE id = ? AND is_active = TRUE", id)
	if err != nil {
		utils.Logger.Errorf("error deactivating category: %v", err)
		utils.WriteError(w, "error deleting category", http.StatusInternalServerError)
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		utils.Logger.Errorf("error deactivating category: %v", err)
		utils.WriteError(w, "error deleting category", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func fetchCategory(ctx context.Context, db *sql.DB, id int) (models.Category, error) {
	var c models.Category
	err := db.QueryRowContext(ctx, `
		SELECT id, name, description, color, icon, transaction_type, is_active, created_at, updated_at
		FROM categories WHERE id = ? AND is_active = TRUE`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.TransactionType, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
