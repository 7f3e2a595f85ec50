package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"spendtrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/tags/", strings.NewReader(`{"name":"food"}`))
		var req models.TagRequest
		require.NoError(t, DecodeJSON(r, &req))
		assert.Equal(t, "food", req.Name)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/tags/", strings.NewReader(`{"name":"food","bogus":1}`))
		var req models.TagRequest
		assert.Error(t, DecodeJSON(r, &req))
	})

	t.Run("trailing garbage rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/tags/", strings.NewReader(`{"name":"food"} {"name":"again"}`))
		var req models.TagRequest
		assert.Error(t, DecodeJSON(r, &req))
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/tags/", strings.NewReader(`{`))
		var req models.TagRequest
		assert.Error(t, DecodeJSON(r, &req))
	})
}

func TestValidateStruct(t *testing.T) {
	t.Run("messages keyed by json field name", func(t *testing.T) {
		fields := ValidateStruct(models.RegisterRequest{
			Email:    "not-an-email",
			Password: "short",
		})

		require.NotNil(t, fields)
		assert.Equal(t, []string{"This field is required."}, fields["username"])
		assert.Equal(t, []string{"Enter a valid email address."}, fields["email"])
		assert.Equal(t, []string{"Ensure this field has at least 8 characters."}, fields["password"])
		assert.Equal(t, []string{"This field is required."}, fields["password_confirm"])
	})

	t.Run("valid input returns nil", func(t *testing.T) {
		assert.Nil(t, ValidateStruct(models.TagRequest{Name: "groceries"}))
	})

	t.Run("oneof lists the choices", func(t *testing.T) {
		bad := "transfer"
		fields := ValidateStruct(models.ExpensePatch{TransactionType: &bad})

		require.NotNil(t, fields)
		assert.Equal(t,
			[]string{"Value must be one of: expense, income, credit, debt, repayment."},
			fields["transaction_type"])
	})
}

func TestOrderingClause(t *testing.T) {
	allowed := map[string]string{"date": "e.date", "amount": "e.amount"}
	fallback := "e.date DESC, e.created_at DESC"

	assert.Equal(t, "e.date ASC", OrderingClause("date", allowed, fallback))
	assert.Equal(t, "e.amount DESC", OrderingClause("-amount", allowed, fallback))
	assert.Equal(t, fallback, OrderingClause("", allowed, fallback))
	assert.Equal(t, fallback, OrderingClause("evil; DROP TABLE", allowed, fallback))
}
