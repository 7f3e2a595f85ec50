package expenses

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExpenseFilters(t *testing.T) {
	t.Run("no params scopes to the user", func(t *testing.T) {
		where, args, errs := buildExpenseFilters(url.Values{}, 7)

		require.Nil(t, errs)
		assert.Equal(t, "e.user_id = ?", where)
		assert.Equal(t, []interface{}{7}, args)
	})

	t.Run("filters compose conjunctively", func(t *testing.T) {
		q := url.Values{}
		q.Set("date_from", "2026-01-01")
		q.Set("date_to", "2026-01-31")
		q.Set("category", "3")
		q.Set("transaction_type", "expense")

		where, args, errs := buildExpenseFilters(q, 7)

		require.Nil(t, errs)
		assert.Equal(t,
			"e.user_id = ? AND e.date >= ? AND e.date <= ? AND e.category_id = ? AND e.transaction_type = ?",
			where)
		assert.Equal(t, []interface{}{7, "2026-01-01", "2026-01-31", 3, "expense"}, args)
	})

	t.Run("amount bounds parse as decimals", func(t *testing.T) {
		q := url.Values{}
		q.Set("amount_min", "10.50")
		q.Set("amount_max", "99.99")

		where, args, errs := buildExpenseFilters(q, 1)

		require.Nil(t, errs)
		assert.Equal(t, "e.user_id = ? AND e.amount >= ? AND e.amount <= ?", where)
		require.Len(t, args, 3)
		assert.True(t, args[1].(decimal.Decimal).Equal(decimal.RequireFromString("10.50")))
		assert.True(t, args[2].(decimal.Decimal).Equal(decimal.RequireFromString("99.99")))
	})

	t.Run("tags filter builds an IN subquery", func(t *testing.T) {
		q := url.Values{}
		q.Set("tags", "1, 2,3")

		where, args, errs := buildExpenseFilters(q, 1)

		require.Nil(t, errs)
		assert.Contains(t, where, "e.id IN (SELECT expense_id FROM expense_tags WHERE tag_id IN (?,?,?))")
		assert.Equal(t, []interface{}{1, 1, 2, 3}, args)
	})

	t.Run("search matches description, location and payment method", func(t *testing.T) {
		q := url.Values{}
		q.Set("search", "coffee")

		where, args, errs := buildExpenseFilters(q, 1)

		require.Nil(t, errs)
		assert.Contains(t, where, "(e.description LIKE ? OR e.location LIKE ? OR e.payment_method LIKE ?)")
		assert.Equal(t, []interface{}{1, "%coffee%", "%coffee%", "%coffee%"}, args)
	})

	t.Run("is_recurring accepts true/1/false/0", func(t *testing.T) {
		for _, v := range []string{"true", "1"} {
			q := url.Values{"is_recurring": {v}}
			where, _, errs := buildExpenseFilters(q, 1)
			require.Nil(t, errs)
			assert.Contains(t, where, "e.is_recurring = TRUE")
		}
		for _, v := range []string{"false", "0"} {
			q := url.Values{"is_recurring": {v}}
			where, _, errs := buildExpenseFilters(q, 1)
			require.Nil(t, errs)
			assert.Contains(t, where, "e.is_recurring = FALSE")
		}
	})

	t.Run("malformed values produce field errors and no SQL", func(t *testing.T) {
		q := url.Values{}
		q.Set("date_from", "01/02/2026")
		q.Set("amount_min", "abc")
		q.Set("tags", "1,x")
		q.Set("transaction_type", "transfer")
		q.Set("is_recurring", "maybe")

		where, args, errs := buildExpenseFilters(q, 1)

		assert.Empty(t, where)
		assert.Nil(t, args)
		require.NotNil(t, errs)
		assert.Equal(t, []string{"Date has wrong format. Use YYYY-MM-DD."}, errs["date_from"])
		assert.Equal(t, []string{"Enter a number."}, errs["amount_min"])
		assert.Equal(t, []string{"Enter a comma-separated list of tag ids."}, errs["tags"])
		assert.Equal(t, []string{"Enter a boolean value."}, errs["is_recurring"])
		assert.NotEmpty(t, errs["transaction_type"])
	})
}

func TestInvalidTagsMessage(t *testing.T) {
	assert.Equal(t, "Invalid tag ids: 3, 7.", invalidTagsMessage([]int{3, 7}))
	assert.Equal(t, "Invalid tag ids: 5.", invalidTagsMessage([]int{5}))
}
