// Package services holds the application use cases on top of the storage
// ports: recording expenses, suggestions, dashboards, and analysis.
package services

import (
	"context"
	"fmt"

	"kharcha/internal/core"
	"kharcha/internal/log"
	"kharcha/internal/ports"
	"kharcha/internal/suggest"
)

// ExpenseService wires expense CRUD to the suggester's training data and
// the event stream. Publisher and samples are optional.
type ExpenseService struct {
	repo      ports.Repository
	publisher ports.EventPublisher
	samples   *suggest.SampleStore
	suggester *suggest.Suggester
	logger    *log.Logger
}

func NewExpenseService(repo ports.Repository, suggester *suggest.Suggester, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		repo:      repo,
		suggester: suggester,
		logger:    logger,
	}
}

// WithPublisher enables expense event publishing.
func (s *ExpenseService) WithPublisher(p ports.EventPublisher) *ExpenseService {
	s.publisher = p
	return s
}

// WithSampleStore enables training-sample caching.
func (s *ExpenseService) WithSampleStore(store *suggest.SampleStore) *ExpenseService {
	s.samples = store
	return s
}

// AddExpense validates and persists an expense, caches its training sample,
// and emits a created event. Sample and event failures are logged, not
// returned: the expense is already durable.
func (s *ExpenseService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.repo.Append(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("append expense: %w", err)
	}

	if s.samples != nil {
		sample := suggest.Sample{Description: saved.Description, Category: saved.Category}
		if err := s.samples.Put(saved.ID, sample); err != nil {
			s.logger.WarnContext(ctx, "failed to cache training sample", "id", saved.ID, "error", err)
		}
	}
	s.publishEvent(ctx, saved.ID, "created")

	return saved, nil
}

// DeleteExpense removes an expense and its cached training sample.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.samples != nil {
		if err := s.samples.Delete(id); err != nil {
			s.logger.WarnContext(ctx, "failed to drop training sample", "id", id, "error", err)
		}
	}
	s.publishEvent(ctx, id, "deleted")
	return nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, id int64, kind string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, id, kind); err != nil {
		s.logger.WarnContext(ctx, "failed to publish expense event", "id", id, "kind", kind, "error", err)
	}
}

// ListMonth returns the expenses of one month.
func (s *ExpenseService) ListMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	return s.repo.ListMonth(ctx, year, month)
}

// ListAll returns the full expense history.
func (s *ExpenseService) ListAll(ctx context.Context) ([]core.Expense, error) {
	return s.repo.ListAll(ctx)
}

// Overview aggregates one month by category.
func (s *ExpenseService) Overview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	return s.repo.MonthOverview(ctx, year, month)
}

// Suggest runs the category pipeline for a description and amount.
func (s *ExpenseService) Suggest(description string, amount core.Money) suggest.Suggestion {
	return s.suggester.Suggest(description, amount)
}

// Retrain rebuilds the classifier from the sample cache, falling back to
// the expense log when the cache is empty or absent.
func (s *ExpenseService) Retrain(ctx context.Context) (int, error) {
	var samples []suggest.Sample

	if s.samples != nil {
		cached, err := s.samples.All()
		if err != nil {
			s.logger.WarnContext(ctx, "sample cache unreadable, using expense log", "error", err)
		} else {
			samples = cached
		}
	}

	if len(samples) == 0 {
		expenses, err := s.repo.ListAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("load history for retrain: %w", err)
		}
		for _, e := range expenses {
			samples = append(samples, suggest.Sample{Description: e.Description, Category: e.Category})
		}
	}

	if err := s.suggester.Retrain(samples); err != nil {
		return 0, err
	}

	count := s.suggester.ModelSampleCount()
	s.logger.InfoContext(ctx, "suggester retrained", "samples", count)
	return count, nil
}
