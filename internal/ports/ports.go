// Package ports declares the interfaces the application core depends on.
// Storage backends and exporters implement them.
package ports

import (
	"context"

	"kharcha/internal/core"
)

// ExpenseWriter persists new expenses.
type ExpenseWriter interface {
	Append(ctx context.Context, e core.Expense) (core.Expense, error)
}

// ExpenseLister reads expenses back out of storage.
type ExpenseLister interface {
	ListMonth(ctx context.Context, year, month int) ([]core.Expense, error)
	ListAll(ctx context.Context) ([]core.Expense, error)
}

// ExpenseDeleter removes an expense by id.
type ExpenseDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// OverviewReader aggregates a month into totals per category.
type OverviewReader interface {
	MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error)
}

// ExpenseGetter fetches a single expense by id.
type ExpenseGetter interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
}

// Repository is the full storage surface a backend provides.
type Repository interface {
	ExpenseWriter
	ExpenseLister
	ExpenseDeleter
	ExpenseGetter
	OverviewReader
}

// ExportQueue hands pending rows to the export worker.
type ExportQueue interface {
	PendingExports(ctx context.Context, limit int) ([]core.Expense, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64, cause string) error
}

// RowExporter appends one expense row to an external sheet.
type RowExporter interface {
	AppendRow(ctx context.Context, e core.Expense) error
}

// EventPublisher emits domain events for asynchronous processing.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, id int64, kind string) error
}
