package expenses

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
)

var orderingFields = map[string]string{
	"date":       "e.date",
	"amount":     "e.amount",
	"created_at": "e.created_at",
	"updated_at": "e.updated_at",
}

const defaultOrdering = "e.date DESC, e.created_at DESC"

// buildExpenseFilters translates the optional list query parameters into a
// WHERE clause over one user's expenses. All filters compose conjunctively;
// the tags filter ORs over the given ids and search ORs over its three
// fields. A malformed value produces a validation error naming the offending
// parameter, and no SQL.
func buildExpenseFilters(q url.Values, userID int) (where string, args []interface{}, fieldErrs map[string][]string) {
	conds := []string{"e.user_id = ?"}
	args = []interface{}{userID}
	errs := map[string][]string{}

	if v := q.Get("date_from"); v != "" {
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			errs["date_from"] = append(errs["date_from"], "Date has wrong format. Use YYYY-MM-DD.")
		} else {
			conds = append(conds, "e.date >= ?")
			args = append(args, v)
		}
	}

	if v := q.Get("date_to"); v != "" {
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			errs["date_to"] = append(errs["date_to"], "Date has wrong format. Use YYYY-MM-DD.")
		} else {
			conds = append(conds, "e.date <= ?")
			args = append(args, v)
		}
	}

	if v := q.Get("amount_min"); v != "" {
		if d, err := decimal.NewFromString(v); err != nil {
			errs["amount_min"] = append(errs["amount_min"], "Enter a number.")
		} else {
			conds = append(conds, "e.amount >= ?")
			args = append(args, d)
		}
	}

	if v := q.Get("amount_max"); v != "" {
		if d, err := decimal.NewFromString(v); err != nil {
			errs["amount_max"] = append(errs["amount_max"], "Enter a number.")
		} else {
			conds = append(conds, "e.amount <= ?")
			args = append(args, d)
		}
	}

	if v := q.Get("category"); v != "" {
		if id, err := strconv.Atoi(v); err != nil {
			errs["category"] = append(errs["category"], "Enter a number.")
		} else {
			conds = append(conds, "e.category_id = ?")
			args = append(args, id)
		}
	}

	if v := q.Get("tags"); v != "" {
		ids := []interface{}{}
		bad := false
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				errs["tags"] = append(errs["tags"], "Enter a comma-separated list of tag ids.")
				bad = true
				break
			}
			ids = append(ids, id)
		}
		if !bad && len(ids) > 0 {
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
			conds = append(conds, "e.id IN (SELECT expense_id FROM expense_tags WHERE tag_id IN ("+placeholders+"))")
			args = append(args, ids...)
		}
	}

	if v := q.Get("transaction_type"); v != "" {
		if !models.IsExpenseTransactionType(v) {
			errs["transaction_type"] = append(errs["transaction_type"],
				"Value must be one of: expense, income, credit, debt, repayment.")
		} else {
			conds = append(conds, "e.transaction_type = ?")
			args = append(args, v)
		}
	}

	if v := q.Get("is_recurring"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1":
			conds = append(conds, "e.is_recurring = TRUE")
		case "false", "0":
			conds = append(conds, "e.is_recurring = FALSE")
		default:
			errs["is_recurring"] = append(errs["is_recurring"], "Enter a boolean value.")
		}
	}

	if v := q.Get("search"); v != "" {
		conds = append(conds, "(e.description LIKE ? OR e.location LIKE ? OR e.payment_method LIKE ?)")
		pattern := "%" + v + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(errs) > 0 {
		return "", nil, errs
	}

	return strings.Join(conds, " AND "), args, nil
}
