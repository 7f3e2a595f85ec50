package expenses

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendtrack/internal/api/handlers"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"
)

type tagIDsRequest struct {
	TagIDs []int `json:"tag_ids"`
}

// AddTagsHandler serves POST /expenses/{id}/add_tags/. Attaching is
// all-or-nothing: one foreign or missing tag id rejects the whole request.
// Tags already attached are left as they are.
func AddTagsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	applyTagAction(w, r, true)
}

// RemoveTagsHandler serves DELETE /expenses/{id}/remove_tags/. Ids that are
// not attached (or not the caller's at all) are silently skipped.
func RemoveTagsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	applyTagAction(w, r, false)
}

func applyTagAction(w http.ResponseWriter, r *http.Request, attach bool) {
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

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	var req tagIDsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.TagIDs) == 0 {
		utils.WriteValidationError(w, utils.FieldError("tag_ids", "This field is required."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := expenseExists(ctx, db, id, userID)
	if err != nil {
		utils.Logger.Errorf("error checking expense: %v", err)
		utils.WriteError(w, "error updating expense tags", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	if attach {
		foreign, err := foreignTagIDs(ctx, db, req.TagIDs, userID)
		if err != nil {
			utils.Logger.Errorf("error checking tags: %v", err)
			utils.WriteError(w, "error updating expense tags", http.StatusInternalServerError)
			return
		}
		if len(foreign) > 0 {
			utils.WriteValidationError(w, utils.FieldError("tag_ids", invalidTagsMessage(foreign)))
			return
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			utils.Logger.Errorf("error starting transaction: %v", err)
			utils.WriteError(w, "error updating expense tags", http.StatusInternalServerError)
			return
		}
		if err := insertExpenseTags(ctx, tx, id, req.TagIDs); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("error attaching tags: %v", err)
			utils.WriteError(w, "error updating expense tags", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			utils.Logger.Errorf("error committing transaction: %v", err)
			utils.WriteError(w, "error updating expense tags", http.StatusInternalServerError)
			return
		}
	} else {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(req.TagIDs)), ", ")
		args := []interface{}{id}
		for _, tagID := range req.TagIDs {
			args = append(args, tagID)
		}
		// Detaching an id that was never attached is a no-op.
		_, err := db.ExecContext(ctx,
			"DELETE FROM expense_tags WHERE expense_id = ? AND tag_id IN ("+placeholders+")", args...)
		if err != nil {
			utils.Logger.Errorf("error detaching tags: %v", err)
			utils.WriteError(w, "error updating expense tags", http.StatusInternalServerError)
			return
		}
	}

	expense, err := fetchExpense(ctx, db, id, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching expense: %v", err)
		utils.WriteError(w, "error updating expense tags", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, expense)
}
