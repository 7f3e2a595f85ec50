package expenses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := sqlconnect.DB
	sqlconnect.DB = db
	t.Cleanup(func() {
		sqlconnect.DB = prev
		db.Close()
	})

	return mock
}

func authedRequest(method, target string, body string, userID int) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), userID)
	ctx = context.WithValue(ctx, utils.ContextKey("username"), "ravi")
	return r.WithContext(ctx)
}

func TestAddTagsHandler(t *testing.T) {
	t.Run("foreign tag id rejects the whole request", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT EXISTS(SELECT 1 FROM expenses WHERE id = ? AND user_id = ?)")).
			WithArgs(10, 7).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		// Only tag 1 belongs to the user.
		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id FROM tags WHERE id IN (?,?) AND user_id = ?")).
			WithArgs(1, 3, 7).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		r := authedRequest("POST", "/expenses/10/add_tags/", `{"tag_ids":[1,3]}`, 7)
		r.SetPathValue("id", "10")
		w := httptest.NewRecorder()

		AddTagsHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"Invalid tag ids: 3."}, body["tag_ids"])

		assert.NoError(t, mock.ExpectationsWereMet(), "no insert may happen on a partial failure")
	})

	t.Run("someone else's expense reads as absent", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT EXISTS(SELECT 1 FROM expenses WHERE id = ? AND user_id = ?)")).
			WithArgs(10, 7).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		r := authedRequest("POST", "/expenses/10/add_tags/", `{"tag_ids":[1]}`, 7)
		r.SetPathValue("id", "10")
		w := httptest.NewRecorder()

		AddTagsHandler(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty tag_ids is a validation error", func(t *testing.T) {
		newMockDB(t)

		r := authedRequest("POST", "/expenses/10/add_tags/", `{"tag_ids":[]}`, 7)
		r.SetPathValue("id", "10")
		w := httptest.NewRecorder()

		AddTagsHandler(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"This field is required."}, body["tag_ids"])
	})
}

func TestRemoveTagsHandler(t *testing.T) {
	t.Run("detaching an unattached id is a no-op", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT EXISTS(SELECT 1 FROM expenses WHERE id = ? AND user_id = ?)")).
			WithArgs(10, 7).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		mock.ExpectExec(regexp.QuoteMeta(
			"DELETE FROM expense_tags WHERE expense_id = ? AND tag_id IN (?)")).
			WithArgs(10, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery("SELECT(.|\n)+FROM expenses e JOIN categories c").
			WithArgs(10, 7).
			WillReturnRows(sqlmock.NewRows([]string{
				"e.id", "e.user_id", "e.amount", "e.transaction_type", "e.description", "e.date",
				"e.related_expense_id", "e.lender_borrower", "e.receipt_image", "e.location",
				"e.payment_method", "e.is_recurring", "e.recurring_interval", "e.created_at", "e.updated_at",
				"c.id", "c.name", "c.description", "c.color", "c.icon", "c.transaction_type",
				"c.is_active", "c.created_at", "c.updated_at",
			}).AddRow(
				10, 7, "45.00", "expense", "Lunch", "2026-08-28",
				nil, nil, nil, nil,
				nil, false, nil, "2026-08-28 12:00:00", "2026-08-28 12:00:00",
				2, "Food", nil, "#ff5722", nil, "expense",
				true, "2026-08-01 09:00:00", "2026-08-01 09:00:00",
			))

		mock.ExpectQuery("SELECT et.expense_id, t.id, t.name").
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{
				"et.expense_id", "t.id", "t.name", "t.color", "t.user_id", "t.created_at"}))

		r := authedRequest("DELETE", "/expenses/10/remove_tags/", `{"tag_ids":[99]}`, 7)
		r.SetPathValue("id", "10")
		w := httptest.NewRecorder()

		RemoveTagsHandler(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(10), body["id"])
		assert.Equal(t, []interface{}{}, body["tags"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
