package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/log"
	"kharcha/internal/suggest"
)

type fakeRepo struct {
	nextID int64
	items  []core.Expense
}

func (f *fakeRepo) Append(ctx context.Context, e core.Expense) (core.Expense, error) {
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now()
	f.items = append(f.items, e)
	return e, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	for i, e := range f.items {
		if e.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeRepo) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	for _, e := range f.items {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, errors.New("not found")
}

func (f *fakeRepo) ListMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range f.items {
		if e.Date.Year() == year && e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]core.Expense, error) {
	return append([]core.Expense(nil), f.items...), nil
}

func (f *fakeRepo) MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{Year: year, Month: month}
	for _, e := range f.items {
		if e.Date.Year() == year && e.Date.Month() == month {
			overview.Total.Paise += e.Amount.Paise
		}
	}
	return overview, nil
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) PublishExpenseEvent(ctx context.Context, id int64, kind string) error {
	f.events = append(f.events, kind)
	return nil
}

func newTestService(t *testing.T) (*ExpenseService, *fakeRepo, *fakePublisher) {
	t.Helper()
	profiles, err := suggest.DefaultProfiles()
	if err != nil {
		t.Fatalf("DefaultProfiles() error = %v", err)
	}
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewExpenseService(repo, suggest.New(profiles, suggest.DefaultOptions()), log.New(slog.LevelError, "test")).
		WithPublisher(pub)
	return svc, repo, pub
}

func TestAddExpenseValidatesAndPublishes(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	saved, err := svc.AddExpense(ctx, expenseOn(2026, 8, 10, 25000, core.Food, "lunch"))
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if saved.ID == 0 {
		t.Error("AddExpense() returned zero id")
	}
	if len(repo.items) != 1 {
		t.Errorf("repo has %d items, want 1", len(repo.items))
	}
	if len(pub.events) != 1 || pub.events[0] != "created" {
		t.Errorf("published events = %v, want [created]", pub.events)
	}

	_, err = svc.AddExpense(ctx, expenseOn(2026, 8, 10, -100, core.Food, "bad"))
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("AddExpense(negative) error = %v, want ErrInvalidAmount", err)
	}
}

func TestDeleteExpensePublishes(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	saved, err := svc.AddExpense(ctx, expenseOn(2026, 8, 10, 25000, core.Food, "lunch"))
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if err := svc.DeleteExpense(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if len(pub.events) != 2 || pub.events[1] != "deleted" {
		t.Errorf("published events = %v, want [created deleted]", pub.events)
	}
}

func TestRetrainFromExpenseLog(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := svc.AddExpense(ctx, expenseOn(2026, 8, i+1, 10000, core.Food, "blorf snerg")); err != nil {
			t.Fatalf("AddExpense() error = %v", err)
		}
		if _, err := svc.AddExpense(ctx, expenseOn(2026, 8, i+1, 10000, core.Transportation, "quix zapp")); err != nil {
			t.Fatalf("AddExpense() error = %v", err)
		}
	}

	count, err := svc.Retrain(ctx)
	if err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}
	if count != 12 {
		t.Errorf("Retrain() trained on %d samples, want 12", count)
	}

	got := svc.Suggest("quix zapp", core.Money{})
	if got.Category != core.Transportation {
		t.Errorf("Suggest(quix zapp) = %s, want Transportation", got.Category)
	}
}

func TestRetrainInsufficient(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Retrain(context.Background())
	if !errors.Is(err, suggest.ErrInsufficientHistory) {
		t.Errorf("Retrain(empty log) error = %v, want ErrInsufficientHistory", err)
	}
}

func TestRetrainUsesSampleCache(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	store, err := suggest.OpenSampleStore(t.TempDir() + "/samples.db")
	if err != nil {
		t.Fatalf("OpenSampleStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	svc.WithSampleStore(store)

	for i := 0; i < 6; i++ {
		if _, err := svc.AddExpense(ctx, expenseOn(2026, 8, i+1, 10000, core.Food, "blorf snerg")); err != nil {
			t.Fatalf("AddExpense() error = %v", err)
		}
		if _, err := svc.AddExpense(ctx, expenseOn(2026, 8, i+1, 10000, core.Transportation, "quix zapp")); err != nil {
			t.Fatalf("AddExpense() error = %v", err)
		}
	}

	count, err := svc.Retrain(ctx)
	if err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}
	if count != 12 {
		t.Errorf("Retrain() trained on %d cached samples, want 12", count)
	}
}
