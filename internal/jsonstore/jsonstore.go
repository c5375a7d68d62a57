// Package jsonstore persists expenses in a single JSON file, rewritten in
// full on every mutation. It is the default backend for a single-user setup.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"kharcha/internal/core"
)

// ErrNotFound is returned when an expense id does not exist.
var ErrNotFound = core.ErrExpenseNotFound

type record struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	AmountPaise int64     `json:"amount_paise"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type fileFormat struct {
	NextID   int64    `json:"next_id"`
	Expenses []record `json:"expenses"`
}

type Store struct {
	path string

	mu     sync.Mutex
	nextID int64
	items  []record
}

// Open loads the store from path, creating an empty one when the file is
// missing. A corrupt file is treated as empty rather than failing startup.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{path: path, nextID: 1}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		slog.Warn("Expense file is corrupt, starting empty", "path", path, "error", err)
		return s, nil
	}

	s.items = ff.Expenses
	s.nextID = ff.NextID
	if s.nextID < 1 {
		s.nextID = 1
		for _, r := range s.items {
			if r.ID >= s.nextID {
				s.nextID = r.ID + 1
			}
		}
	}
	return s, nil
}

// flush rewrites the whole file. Caller holds the lock.
func (s *Store) flush() error {
	ff := fileFormat{NextID: s.nextID, Expenses: s.items}
	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal expenses: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Append implements ports.ExpenseWriter
func (s *Store) Append(ctx context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	e.CreatedAt = time.Now().UTC()
	s.nextID++
	s.items = append(s.items, toRecord(e))

	if err := s.flush(); err != nil {
		s.items = s.items[:len(s.items)-1]
		s.nextID--
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved to JSON file",
		"id", e.ID,
		"spent_on", e.Date.String(),
		"amount_paise", e.Amount.Paise,
		"category", e.Category)

	return e, nil
}

// Delete implements ports.ExpenseDeleter
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.items {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	kept := make([]record, 0, len(s.items)-1)
	kept = append(kept, s.items[:idx]...)
	kept = append(kept, s.items[idx+1:]...)

	prev := s.items
	s.items = kept
	if err := s.flush(); err != nil {
		s.items = prev
		return err
	}
	return nil
}

// ListMonth implements ports.ExpenseLister
func (s *Store) ListMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expenses []core.Expense
	for _, r := range s.items {
		e, err := fromRecord(r)
		if err != nil {
			continue
		}
		if e.Date.Year() == year && e.Date.Month() == month {
			expenses = append(expenses, e)
		}
	}
	sortExpenses(expenses)
	return expenses, nil
}

// ListAll implements ports.ExpenseLister
func (s *Store) ListAll(ctx context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := make([]core.Expense, 0, len(s.items))
	for _, r := range s.items {
		e, err := fromRecord(r)
		if err != nil {
			continue
		}
		expenses = append(expenses, e)
	}
	sortExpenses(expenses)
	return expenses, nil
}

// GetExpense returns a single expense by id.
func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.items {
		if r.ID == id {
			return fromRecord(r)
		}
	}
	return core.Expense{}, ErrNotFound
}

// MonthOverview implements ports.OverviewReader
func (s *Store) MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	expenses, err := s.ListMonth(ctx, year, month)
	if err != nil {
		return core.MonthOverview{}, err
	}

	overview := core.MonthOverview{Year: year, Month: month}
	byCategory := make(map[core.Category]int64)
	for _, e := range expenses {
		overview.Total.Paise += e.Amount.Paise
		byCategory[e.Category] += e.Amount.Paise
	}
	for cat, paise := range byCategory {
		overview.ByCategory = append(overview.ByCategory, core.CategoryAmount{
			Category: cat,
			Amount:   core.Money{Paise: paise},
		})
	}
	sort.Slice(overview.ByCategory, func(i, j int) bool {
		return overview.ByCategory[i].Amount.Paise > overview.ByCategory[j].Amount.Paise
	})
	return overview, nil
}

func sortExpenses(expenses []core.Expense) {
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date.Time) {
			return expenses[i].Date.Before(expenses[j].Date.Time)
		}
		return expenses[i].ID < expenses[j].ID
	})
}

func toRecord(e core.Expense) record {
	return record{
		ID:          e.ID,
		Date:        e.Date.String(),
		AmountPaise: e.Amount.Paise,
		Category:    string(e.Category),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func fromRecord(r record) (core.Expense, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", r.Date, err)
	}
	return core.Expense{
		ID:          r.ID,
		Date:        date,
		Amount:      core.Money{Paise: r.AmountPaise},
		Category:    core.Category(r.Category),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}, nil
}
