package tags

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
	"name":       "name",
	"created_at": "created_at",
}

// TagsHandler serves the /tags/ collection, scoped to the current user.
func TagsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listTags(w, r)
	case http.MethodPost:
		createTag(w, r)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// TagHandler serves a single /tags/{id}/ resource. A tag owned by someone
// else renders 404, never 403.
func TagHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		getTag(w, r, id)
	case http.MethodPut:
		updateTag(w, r, id)
	case http.MethodPatch:
		patchTag(w, r, id)
	case http.MethodDelete:
		deleteTag(w, r, id)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func listTags(w http.ResponseWriter, r *http.Request) {
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

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags WHERE user_id = ?", userID).Scan(&count); err != nil {
		utils.Logger.Errorf("error counting tags: %v", err)
		utils.WriteError(w, "error fetching tags", http.StatusInternalServerError)
		return
	}

	page, pageSize := utils.GetPaginationParams(r)
	orderBy := handlers.OrderingClause(r.URL.Query().Get("ordering"), orderingFields, "name ASC")

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, color, user_id, created_at FROM tags
		WHERE user_id = ? ORDER BY `+orderBy+" LIMIT ? OFFSET ?",
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		utils.Logger.Errorf("error fetching tags: %v", err)
		utils.WriteError(w, "error fetching tags", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.UserID, &t.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning tag: %v", err)
			utils.WriteError(w, "error fetching tags", http.StatusInternalServerError)
			return
		}
		tags = append(tags, t)
	}

	utils.WriteJSON(w, utils.NewPage(r, count, page, pageSize, tags))
}

func createTag(w http.ResponseWriter, r *http.Request) {
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

	var req models.TagRequest
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
		req.Color = "#6c757d"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "INSERT INTO tags (name, color, user_id) VALUES (?, ?, ?)",
		req.Name, req.Color, userID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteValidationError(w, utils.FieldError("name", "You already have a tag with this name."))
			return
		}
		utils.Logger.Errorf("error creating tag: %v", err)
		utils.WriteError(w, "error creating tag", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "error creating tag", http.StatusInternalServerError)
		return
	}

	tag, err := fetchTag(ctx, db, int(id), userID)
	if err != nil {
		utils.Logger.Errorf("error fetching created tag: %v", err)
		utils.WriteError(w, "error creating tag", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, tag, http.StatusCreated)
}

func getTag(w http.ResponseWriter, r *http.Request, id int) {
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

	tag, err := fetchTag(ctx, db, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "Not found.", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching tag: %v", err)
		utils.WriteError(w, "error fetching tag", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, tag)
}

func updateTag(w http.ResponseWriter, r *http.Request, id int) {
	var req models.TagRequest
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
		req.Color = "#6c757d"
	}

	applyTagUpdate(w, r, id, "UPDATE tags SET name = ?, color = ? WHERE id = ? AND user_id = ?",
		func(userID int) []interface{} { return []interface{}{req.Name, req.Color, id, userID} })
}

func patchTag(w http.ResponseWriter, r *http.Request, id int) {
	var patch models.TagPatch
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
	prefix := []interface{}{}

	if patch.Name != nil {
		set = append(set, "name = ?")
		prefix = append(prefix, *patch.Name)
	}
	if patch.Color != nil {
		set = append(set, "color = ?")
		prefix = append(prefix, *patch.Color)
	}

	if len(set) == 0 {
		getTag(w, r, id)
		return
	}

	applyTagUpdate(w, r, id, "UPDATE tags SET "+strings.Join(set, ", ")+" WHERE id = ? AND user_id = ?",
		func(userID int) []interface{} { return append(append([]interface{}{}, prefix...), id, userID) })
}

func applyTagUpdate(w http.ResponseWriter, r *http.Request, id int, query string, buildArgs func(userID int) []interface{}) {
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

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM tags WHERE id = ? AND user_id = ?)", id, userID).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("error checking tag: %v", err)
		utils.WriteError(w, "error updating tag", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	if _, err := db.ExecContext(ctx, query, buildArgs(userID)...); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteValidationError(w, utils.FieldError("name", "You already have a tag with this name."))
			return
		}
		utils.Logger.Errorf("error updating tag: %v", err)
		utils.WriteError(w, "error updating tag", http.StatusInternalServerError)
		return
	}

	tag, err := fetchTag(ctx, db, id, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching updated tag: %v", err)
		utils.WriteError(w, "error updating tag", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, tag)
}

// Tag deletion is hard; expense associations cascade away so historical
// expenses simply lose the tag.
func deleteTag(w http.ResponseWriter, r *http.Request, id int) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM tags WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		utils.Logger.Errorf("error deleting tag: %v", err)
		utils.WriteError(w, "error deleting tag", http.StatusInternalServerError)
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		utils.Logger.Errorf("error deleting tag: %v", err)
		utils.WriteError(w, "error deleting tag", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func fetchTag(ctx context.Context, db *sql.DB, id, userID int) (models.Tag, error) {
	var t models.Tag
	err := db.QueryRowContext(ctx,
		"SELECT id, name, color, user_id, created_at FROM tags WHERE id = ? AND user_id = ?", id, userID).
		Scan(&t.ID, &t.Name, &t.Color, &t.UserID, &t.CreatedAt)
	return t, err
}
