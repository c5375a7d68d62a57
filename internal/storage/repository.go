// Package storage provides the SQLite-backed expense repository.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kharcha/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an expense id does not exist or was deleted.
var ErrNotFound = core.ErrExpenseNotFound

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ports.ExpenseWriter
func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (core.Expense, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (spent_on, amount_paise, category, description, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Date.String(), e.Amount.Paise, string(e.Category), e.Description, now)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("read inserted id: %w", err)
	}

	e.ID = id
	e.CreatedAt = now

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"spent_on", e.Date.String(),
		"amount_paise", e.Amount.Paise,
		"category", e.Category)

	return e, nil
}

// Delete implements ports.ExpenseDeleter as a soft delete.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMonth implements ports.ExpenseLister for one year+month.
func (r *SQLiteRepository) ListMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, spent_on, amount_paise, category, description, created_at
		 FROM expenses
		 WHERE deleted_at IS NULL AND spent_on LIKE ? || '%'
		 ORDER BY spent_on, id`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list expenses for %04d-%02d: %w", year, month, err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListAll implements ports.ExpenseLister.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, spent_on, amount_paise, category, description, created_at
		 FROM expenses
		 WHERE deleted_at IS NULL
		 ORDER BY spent_on, id`)
	if err != nil {
		return nil, fmt.Errorf("list all expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// MonthOverview implements ports.OverviewReader.
func (r *SQLiteRepository) MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{Year: year, Month: month}
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_paise) FROM expenses
		 WHERE deleted_at IS NULL AND spent_on LIKE ? || '%'`, prefix).Scan(&total)
	if err != nil {
		return overview, fmt.Errorf("get month total: %w", err)
	}
	overview.Total = core.Money{Paise: total.Int64}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_paise) FROM expenses
		 WHERE deleted_at IS NULL AND spent_on LIKE ? || '%'
		 GROUP BY category
		 ORDER BY SUM(amount_paise) DESC`, prefix)
	if err != nil {
		return overview, fmt.Errorf("get category sums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var paise int64
		if err := rows.Scan(&category, &paise); err != nil {
			return overview, fmt.Errorf("scan category sum: %w", err)
		}
		overview.ByCategory = append(overview.ByCategory, core.CategoryAmount{
			Category: core.Category(category),
			Amount:   core.Money{Paise: paise},
		})
	}
	if err := rows.Err(); err != nil {
		return overview, fmt.Errorf("iterate category sums: %w", err)
	}

	return overview, nil
}

// PendingExports implements ports.ExportQueue.
func (r *SQLiteRepository) PendingExports(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, spent_on, amount_paise, category, description, created_at
		 FROM expenses
		 WHERE deleted_at IS NULL AND export_status = 'pending'
		 ORDER BY id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending exports: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// MarkExported implements ports.ExportQueue.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET export_status = 'exported', export_error = NULL WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark expense exported: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as exported", "id", id)
	return nil
}

// MarkExportError implements ports.ExportQueue.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64, cause string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET export_status = 'error', export_error = ? WHERE id = ?`, cause, id); err != nil {
		return fmt.Errorf("mark expense export error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with export error", "id", id, "cause", cause)
	return nil
}

// GetExpense returns a single live expense by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, spent_on, amount_paise, category, description, created_at
		 FROM expenses
		 WHERE id = ? AND deleted_at IS NULL`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		spentOn   string
		category  string
		createdAt time.Time
	)
	if err := row.Scan(&e.ID, &spentOn, &e.Amount.Paise, &category, &e.Description, &createdAt); err != nil {
		return core.Expense{}, err
	}

	date, err := core.ParseDate(spentOn)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", spentOn, err)
	}
	e.Date = date
	e.Category = core.Category(category)
	e.CreatedAt = createdAt
	return e, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
