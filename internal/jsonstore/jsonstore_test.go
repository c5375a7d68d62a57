package jsonstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kharcha/internal/core"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expenses.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, path
}

func testExpense(day int, paise int64, cat core.Category, desc string) core.Expense {
	return core.Expense{
		Date:        core.NewDate(2026, 8, day),
		Amount:      core.Money{Paise: paise},
		Category:    cat,
		Description: desc,
	}
}

func TestAppendPersists(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Append(ctx, testExpense(10, 25000, core.Food, "lunch"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if saved.ID != 1 {
		t.Errorf("first id = %d, want 1", saved.ID)
	}

	// Reopen and verify the file round-trips
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() after write error = %v", err)
	}
	expenses, err := reopened.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(expenses) != 1 || expenses[0].Description != "lunch" {
		t.Errorf("reopened store has %v, want the saved expense", expenses)
	}

	next, err := reopened.Append(ctx, testExpense(11, 5000, core.Food, "chai"))
	if err != nil {
		t.Fatalf("Append() after reopen error = %v", err)
	}
	if next.ID != 2 {
		t.Errorf("second id = %d, want 2", next.ID)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Append(ctx, testExpense(1, 10000, core.Food, "snacks"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := s.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetExpense(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetExpense(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestListMonthFilters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	august := testExpense(15, 10000, core.Food, "dinner")
	july := testExpense(15, 20000, core.Bills, "internet bill")
	july.Date = core.NewDate(2026, 7, 15)

	for _, e := range []core.Expense{august, july} {
		if _, err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	expenses, err := s.ListMonth(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("ListMonth() error = %v", err)
	}
	if len(expenses) != 1 || expenses[0].Description != "dinner" {
		t.Errorf("ListMonth(2026, 8) = %v, want only the august expense", expenses)
	}
}

func TestMonthOverview(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, e := range []core.Expense{
		testExpense(1, 30000, core.Food, "groceries"),
		testExpense(2, 20000, core.Food, "dinner"),
		testExpense(3, 10000, core.Transportation, "metro card"),
	} {
		if _, err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	overview, err := s.MonthOverview(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("MonthOverview() error = %v", err)
	}
	if overview.Total.Paise != 60000 {
		t.Errorf("Total = %d, want 60000", overview.Total.Paise)
	}
	if len(overview.ByCategory) != 2 || overview.ByCategory[0].Category != core.Food {
		t.Errorf("ByCategory = %v, want Food first", overview.ByCategory)
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open(corrupt) error = %v, want empty store", err)
	}
	expenses, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("corrupt file produced %d expenses, want 0", len(expenses))
	}
}
