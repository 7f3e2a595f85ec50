package expenses

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"spendtrack/internal/api/handlers"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"

	"github.com/shopspring/decimal"
)

const expenseColumns = `
	e.id, e.user_id, e.amount, e.transaction_type, e.description, e.date,
	e.related_expense_id, e.lender_borrower, e.receipt_image, e.location,
	e.payment_method, e.is_recurring, e.recurring_interval, e.created_at, e.updated_at,
	c.id, c.name, c.description, c.color, c.icon, c.transaction_type, c.is_active, c.created_at, c.updated_at`

const expenseFrom = " FROM expenses e JOIN categories c ON e.category_id = c.id "

// ExpensesHandler serves the /expenses/ collection.
func ExpensesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listExpenses(w, r)
	case http.MethodPost:
		createExpense(w, r)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// ExpenseHandler serves a single /expenses/{id}/ resource. Another user's
// expense renders 404.
func ExpenseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		getExpense(w, r, id)
	case http.MethodPut:
		updateExpense(w, r, id)
	case http.MethodPatch:
		patchExpense(w, r, id)
	case http.MethodDelete:
		deleteExpense(w, r, id)
	default:
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func listExpenses(w http.ResponseWriter, r *http.Request) {
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

	where, args, fieldErrs := buildExpenseFilters(r.URL.Query(), userID)
	if fieldErrs != nil {
		utils.WriteValidationError(w, fieldErrs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*)"+expenseFrom+"WHERE "+where, args...).Scan(&count); err != nil {
		utils.Logger.Errorf("error counting expenses: %v", err)
		utils.WriteError(w, "error fetching expenses", http.StatusInternalServerError)
		return
	}

	page, pageSize := utils.GetPaginationParams(r)
	orderBy := handlers.OrderingClause(r.URL.Query().Get("ordering"), orderingFields, defaultOrdering)

	query := "SELECT" + expenseColumns + expenseFrom + "WHERE " + where + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching expenses: %v", err)
		utils.WriteError(w, "error fetching expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		utils.Logger.Errorf("error scanning expenses: %v", err)
		utils.WriteError(w, "error fetching expenses", http.StatusInternalServerError)
		return
	}

	if err := attachTags(ctx, db, expenses); err != nil {
		utils.Logger.Errorf("error loading expense tags: %v", err)
		utils.WriteError(w, "error fetching expenses", http.StatusInternalServerError)
		return
	}

	today := time.Now()
	for i := range expenses {
		expenses[i].FillDerived(today)
	}

	utils.WriteJSON(w, utils.NewPage(r, count, page, pageSize, expenses))
}

func createExpense(w http.ResponseWriter, r *http.Request) {
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

	var req models.ExpenseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if fields := handlers.ValidateStruct(req); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteValidationError(w, utils.FieldError("amount", "Amount must be greater than zero."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	transactionType, fieldErrs := resolveTransactionType(ctx, db, req.CategoryID, req.TransactionType)
	if fieldErrs != nil {
		utils.WriteValidationError(w, fieldErrs)
		return
	}

	if req.RelatedExpenseID != nil {
		if ok, err := expenseExists(ctx, db, *req.RelatedExpenseID, userID); err != nil {
			utils.Logger.Errorf("error checking related expense: %v", err)
			utils.WriteError(w, "error creating expense", http.StatusInternalServerError)
			return
		} else if !ok {
			utils.WriteValidationError(w, utils.FieldError("related_expense", "Invalid related expense."))
			return
		}
	}

	if len(req.TagIDs) > 0 {
		bad, err := foreignTagIDs(ctx, db, req.TagIDs, userID)
		if err != nil {
			utils.Logger.Errorf("error checking tag ownership: %v", err)
			utils.WriteError(w, "error creating expense", http.StatusInternalServerError)
			return
		}
		if len(bad) > 0 {
			utils.WriteValidationError(w, utils.FieldError("tag_ids", invalidTagsMessage(bad)))
			return
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (user_id, amount, transaction_type, category_id, description, date,
			related_expense_id, lender_borrower, receipt_image, location, payment_method,
			is_recurring, recurring_interval)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, req.Amount, transactionType, req.CategoryID, req.Description, req.Date,
		req.RelatedExpenseID, req.LenderBorrower, req.ReceiptImage, req.Location, req.PaymentMethod,
		req.IsRecurring, req.RecurringInterval)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error creating expense: %v", err)
		utils.WriteError(w, "error creating expense", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "error creating expense", http.StatusInternalServerError)
		return
	}

	if err := insertExpenseTags(ctx, tx, int(id), req.TagIDs); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("error attaching tags: %v", err)
		utils.WriteError(w, "error creating expense", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expense, err := fetchExpense(ctx, db, int(id), userID)
	if err != nil {
		utils.Logger.Errorf("error fetching created expense: %v", err)
		utils.WriteError(w, "error creating expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, expense, http.StatusCreated)
}

func getExpense(w http.ResponseWriter, r *http.Request, id int) {
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

	expense, err := fetchExpense(ctx, db, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "Not found.", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching expense: %v", err)
		utils.WriteError(w, "error fetching expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, expense)
}

func updateExpense(w http.ResponseWriter, r *http.Request, id int) {
	var req models.ExpenseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if fields := handlers.ValidateStruct(req); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}

	patch := models.ExpensePatch{
		Amount:            &req.Amount,
		CategoryID:        &req.CategoryID,
		Description:       &req.Description,
		Date:              &req.Date,
		TagIDs:            &req.TagIDs,
		RelatedExpenseID:  req.RelatedExpenseID,
		LenderBorrower:    req.LenderBorrower,
		ReceiptImage:      req.ReceiptImage,
		Location:          req.Location,
		PaymentMethod:     req.PaymentMethod,
		IsRecurring:       &req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	}
	if req.TransactionType != "" {
		patch.TransactionType = &req.TransactionType
	}

	applyExpensePatch(w, r, id, patch, true)
}

func patchExpense(w http.ResponseWriter, r *http.Request, id int) {
	var patch models.ExpensePatch
	if err := handlers.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if fields := handlers.ValidateStruct(patch); fields != nil {
		utils.WriteValidationError(w, fields)
		return
	}

	applyExpensePatch(w, r, id, patch, false)
}

// applyExpensePatch performs both full and partial updates. With full=true
// every mutable column is rewritten; otherwise only the fields present in the
// patch change. Category/type consistency is re-checked against the effective
// values after the patch.
func applyExpensePatch(w http.ResponseWriter, r *http.Request, id int, patch models.ExpensePatch, full bool) {
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

	var currentType string
	var currentCategoryID int
	err := db.QueryRowContext(ctx,
		"SELECT transaction_type, category_id FROM expenses WHERE id = ? AND user_id = ?", id, userID).
		Scan(&currentType, &currentCategoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "Not found.", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching expense: %v", err)
		utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
		return
	}

	if patch.Amount != nil && patch.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteValidationError(w, utils.FieldError("amount", "Amount must be greater than zero."))
		return
	}

	if patch.CategoryID != nil || patch.TransactionType != nil {
		categoryID := currentCategoryID
		if patch.CategoryID != nil {
			categoryID = *patch.CategoryID
		}
		requestedType := currentType
		if patch.TransactionType != nil {
			requestedType = *patch.TransactionType
		} else if patch.CategoryID != nil {
			// Category changed without an explicit type: inherit the new
			// category's type.
			requestedType = ""
		}

		resolvedType, fieldErrs := resolveTransactionType(ctx, db, categoryID, requestedType)
		if fieldErrs != nil {
			utils.WriteValidationError(w, fieldErrs)
			return
		}
		patch.TransactionType = &resolvedType
	}

	if patch.RelatedExpenseID != nil {
		if ok, err := expenseExists(ctx, db, *patch.RelatedExpenseID, userID); err != nil {
			utils.Logger.Errorf("error checking related expense: %v", err)
			utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
			return
		} else if !ok {
			utils.WriteValidationError(w, utils.FieldError("related_expense", "Invalid related expense."))
			return
		}
	}

	if patch.TagIDs != nil && len(*patch.TagIDs) > 0 {
		bad, err := foreignTagIDs(ctx, db, *patch.TagIDs, userID)
		if err != nil {
			utils.Logger.Errorf("error checking tag ownership: %v", err)
			utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
			return
		}
		if len(bad) > 0 {
			utils.WriteValidationError(w, utils.FieldError("tag_ids", invalidTagsMessage(bad)))
			return
		}
	}

	set := []string{}
	args := []interface{}{}

	appendSet := func(column string, value interface{}, present bool) {
		if present || full {
			set = append(set, column+" = ?")
			args = append(args, value)
		}
	}

	if patch.Amount != nil {
		appendSet("amount", *patch.Amount, true)
	}
	if patch.TransactionType != nil {
		appendSet("transaction_type", *patch.TransactionType, true)
	}
	if patch.CategoryID != nil {
		appendSet("category_id", *patch.CategoryID, true)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description, true)
	}
	if patch.Date != nil {
		appendSet("date", *patch.Date, true)
	}
	appendSet("related_expense_id", patch.RelatedExpenseID, patch.RelatedExpenseID != nil)
	appendSet("lender_borrower", patch.LenderBorrower, patch.LenderBorrower != nil)
	appendSet("receipt_image", patch.ReceiptImage, patch.ReceiptImage != nil)
	appendSet("location", patch.Location, patch.Location != nil)
	appendSet("payment_method", patch.PaymentMethod, patch.PaymentMethod != nil)
	if patch.IsRecurring != nil {
		appendSet("is_recurring", *patch.IsRecurring, true)
	}
	appendSet("recurring_interval", patch.RecurringInterval, patch.RecurringInterval != nil)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if len(set) > 0 {
		args = append(args, id, userID)
		_, err = tx.ExecContext(ctx,
			"UPDATE expenses SET "+strings.Join(set, ", ")+" WHERE id = ? AND user_id = ?", args...)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("error updating expense: %v", err)
			utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
			return
		}
	}

	if patch.TagIDs != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_tags WHERE expense_id = ?", id); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("error replacing tags: %v", err)
			utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
			return
		}
		if err := insertExpenseTags(ctx, tx, id, *patch.TagIDs); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("error replacing tags: %v", err)
			utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expense, err := fetchExpense(ctx, db, id, userID)
	if err != nil {
		utils.Logger.Errorf("error fetching updated expense: %v", err)
		utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, expense)
}

func deleteExpense(w http.ResponseWriter, r *http.Request, id int) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		utils.Logger.Errorf("error deleting expense: %v", err)
		utils.WriteError(w, "error deleting expense", http.StatusInternalServerError)
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		utils.Logger.Errorf("error deleting expense: %v", err)
		utils.WriteError(w, "error deleting expense", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		utils.WriteError(w, "Not found.", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveTransactionType checks category existence and the type consistency
// invariant. An empty requested type inherits the category's type. A
// repayment is accepted against a debt category, since repayments settle
// debts recorded under it.
func resolveTransactionType(ctx context.Context, db *sql.DB, categoryID int, requestedType string) (string, map[string][]string) {
	var categoryType string
	err := db.QueryRowContext(ctx, "SELECT transaction_type FROM categories WHERE id = ? AND is_active = TRUE", categoryID).
		Scan(&categoryType)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", utils.FieldError("category_id", "Invalid category selected.")
		}
		utils.Logger.Errorf("error fetching category: %v", err)
		return "", utils.FieldError("category_id", "Invalid category selected.")
	}

	if requestedType == "" {
		return categoryType, nil
	}

	if requestedType == models.TypeRepayment && categoryType == models.TypeDebt {
		return requestedType, nil
	}

	if requestedType != categoryType {
		return "", utils.FieldError("transaction_type",
			fmt.Sprintf("Transaction type must match category type (%s).", displayType(categoryType)))
	}

	return requestedType, nil
}

func displayType(t string) string {
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

func expenseExists(ctx context.Context, db *sql.DB, id, userID int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM expenses WHERE id = ? AND user_id = ?)", id, userID).Scan(&exists)
	return exists, err
}

// foreignTagIDs returns the requested tag ids that do not belong to the user,
// sorted, so the caller can reject the whole request naming them.
func foreignTagIDs(ctx context.Context, db *sql.DB, tagIDs []int, userID int) ([]int, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tagIDs)), ",")
	args := make([]interface{}, 0, len(tagIDs)+1)
	for _, id := range tagIDs {
		args = append(args, id)
	}
	args = append(args, userID)

	rows, err := db.QueryContext(ctx,
		"SELECT id FROM tags WHERE id IN ("+placeholders+") AND user_id = ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := map[int]bool{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bad := []int{}
	seen := map[int]bool{}
	for _, id := range tagIDs {
		if !owned[id] && !seen[id] {
			bad = append(bad, id)
			seen[id] = true
		}
	}
	sort.Ints(bad)
	return bad, nil
}

func invalidTagsMessage(bad []int) string {
	parts := make([]string, len(bad))
	for i, id := range bad {
		parts[i] = strconv.Itoa(id)
	}
	return "Invalid tag ids: " + strings.Join(parts, ", ") + "."
}

func insertExpenseTags(ctx context.Context, tx *sql.Tx, expenseID int, tagIDs []int) error {
	if len(tagIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT IGNORE INTO expense_tags (expense_id, tag_id) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.ExecContext(ctx, expenseID, tagID); err != nil {
			return err
		}
	}
	return nil
}

type expenseScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row expenseScanner) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Amount, &e.TransactionType, &e.Description, &e.Date,
		&e.RelatedExpenseID, &e.LenderBorrower, &e.ReceiptImage, &e.Location,
		&e.PaymentMethod, &e.IsRecurring, &e.RecurringInterval, &e.CreatedAt, &e.UpdatedAt,
		&e.Category.ID, &e.Category.Name, &e.Category.Description, &e.Category.Color,
		&e.Category.Icon, &e.Category.TransactionType, &e.Category.IsActive,
		&e.Category.CreatedAt, &e.Category.UpdatedAt)
	return e, err
}

func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// attachTags loads the tag sets for a batch of expenses in one query.
func attachTags(ctx context.Context, db *sql.DB, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(expenses)), ",")
	args := make([]interface{}, len(expenses))
	index := make(map[int]int, len(expenses))
	for i := range expenses {
		args[i] = expenses[i].ID
		index[expenses[i].ID] = i
	}

	rows, err := db.QueryContext(ctx, `
		SELECT et.expense_id, t.id, t.name, t.color, t.user_id, t.created_at
		FROM expense_tags et
		JOIN tags t ON et.tag_id = t.id
		WHERE et.expense_id IN (`+placeholders+`)
		ORDER BY t.name`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID int
		var t models.Tag
		if err := rows.Scan(&expenseID, &t.ID, &t.Name, &t.Color, &t.UserID, &t.CreatedAt); err != nil {
			return err
		}
		i := index[expenseID]
		expenses[i].Tags = append(expenses[i].Tags, t)
	}
	return rows.Err()
}

func fetchExpense(ctx context.Context, db *sql.DB, id, userID int) (models.Expense, error) {
	row := db.QueryRowContext(ctx,
		"SELECT"+expenseColumns+expenseFrom+"WHERE e.id = ? AND e.user_id = ?", id, userID)

	expense, err := scanExpense(row)
	if err != nil {
		return models.Expense{}, err
	}

	batch := []models.Expense{expense}
	if err := attachTags(ctx, db, batch); err != nil {
		return models.Expense{}, err
	}

	batch[0].FillDerived(time.Now())
	return batch[0], nil
}
