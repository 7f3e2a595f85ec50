package cron

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"spendtrack/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight — materialize due recurring expenses
	_, err := c.AddFunc("0 0 * * *", func() {
		err := MaterializeRecurringExpenses(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to materialize recurring expenses: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule recurring expense job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (recurring expenses daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Materialize recurring expenses whose next occurrence is due
// -------------------------------------------------------------
//
// A recurring expense spawns a copy dated at its next due date once that
// date arrives. The copy inherits the recurrence flags, so it becomes the
// new head of the series; the tag set is carried over as well.
func MaterializeRecurringExpenses(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := time.Now().Format(time.DateOnly)

	type dueExpense struct {
		id                int
		userID            int
		amount            string
		transactionType   string
		categoryID        int
		description       string
		date              string
		relatedExpenseID  sql.NullInt64
		lenderBorrower    sql.NullString
		receiptImage      sql.NullString
		location          sql.NullString
		paymentMethod     sql.NullString
		recurringInterval string
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, amount, transaction_type, category_id, description, date,
		       related_expense_id, lender_borrower, receipt_image, location, payment_method,
		       recurring_interval
		FROM expenses
		WHERE is_recurring = TRUE AND recurring_interval IS NOT NULL`)
	if err != nil {
		return utils.ErrorHandler(err, "failed to query recurring expenses")
	}

	var due []dueExpense
	for rows.Next() {
		var e dueExpense
		if err := rows.Scan(&e.id, &e.userID, &e.amount, &e.transactionType, &e.categoryID,
			&e.description, &e.date, &e.relatedExpenseID, &e.lenderBorrower, &e.receiptImage,
			&e.location, &e.paymentMethod, &e.recurringInterval); err != nil {
			rows.Close()
			return err
		}
		next, err := NextOccurrence(e.date, e.recurringInterval)
		if err != nil {
			utils.Logger.Warnf("Skipping recurring expense %d: %v", e.id, err)
			continue
		}
		if next <= today {
			e.date = next
			due = append(due, e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return utils.ErrorHandler(err, "failed to scan recurring expenses")
	}

	created := 0
	for _, e := range due {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (user_id, amount, transaction_type, category_id, description, date,
				related_expense_id, lender_borrower, receipt_image, location, payment_method,
				is_recurring, recurring_interval)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE, ?)`,
			e.userID, e.amount, e.transactionType, e.categoryID, e.description, e.date,
			e.relatedExpenseID, e.lenderBorrower, e.receiptImage, e.location, e.paymentMethod,
			e.recurringInterval)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("Failed to materialize recurring expense %d: %v", e.id, err)
			continue
		}
		newID, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO expense_tags (expense_id, tag_id)
			SELECT ?, tag_id FROM expense_tags WHERE expense_id = ?`, newID, e.id)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("Failed to copy tags for recurring expense %d: %v", e.id, err)
			continue
		}

		// The old row leaves the series so only the newest copy spawns.
		_, err = tx.ExecContext(ctx,
			"UPDATE expenses SET is_recurring = FALSE, recurring_interval = NULL WHERE id = ?", e.id)
		if err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		utils.Logger.Infof("Materialized %d recurring expenses", created)
	}
	return nil
}

// NextOccurrence returns the date one interval after the given YYYY-MM-DD
// date. Monthly and yearly steps follow time.AddDate normalization, so
// Jan 31 + 1 month lands on Mar 2 or 3.
func NextOccurrence(date string, interval string) (string, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", err
	}
	switch interval {
	case "daily":
		t = t.AddDate(0, 0, 1)
	case "weekly":
		t = t.AddDate(0, 0, 7)
	case "monthly":
		t = t.AddDate(0, 1, 0)
	case "yearly":
		t = t.AddDate(1, 0, 0)
	default:
		return "", fmt.Errorf("unknown recurring interval %q", interval)
	}
	return t.Format(time.DateOnly), nil
}
