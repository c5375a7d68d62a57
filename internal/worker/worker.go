// Package worker runs the background side of the application: budget alert
// evaluation driven by expense events, and the spreadsheet export loop.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/log"
	"kharcha/internal/notify"
	"kharcha/internal/ports"
	"kharcha/internal/services"
)

// EventSource feeds expense events into the worker.
type EventSource interface {
	ConsumeExpenseEvents(ctx context.Context, handler func(*amqp.ExpenseEventMessage) error) error
}

// AlertPublisher forwards alerts to the alert queue.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

type Worker struct {
	events   EventSource
	alerts   AlertPublisher
	repo     ports.Repository
	budget   *services.BudgetChecker
	notifier notify.Notifier
	history  *notify.History

	exports   ports.ExportQueue
	exporter  ports.RowExporter
	batchSize int
	interval  time.Duration

	logger *log.Logger
}

type Config struct {
	Events    EventSource
	Alerts    AlertPublisher
	Repo      ports.Repository
	Budget    *services.BudgetChecker
	Notifier  notify.Notifier
	Exports   ports.ExportQueue
	Exporter  ports.RowExporter
	BatchSize int
	Interval  time.Duration
}

func New(cfg Config, logger *log.Logger) *Worker {
	return &Worker{
		events:    cfg.Events,
		alerts:    cfg.Alerts,
		repo:      cfg.Repo,
		budget:    cfg.Budget,
		notifier:  cfg.Notifier,
		history:   notify.NewHistory(),
		exports:   cfg.Exports,
		exporter:  cfg.Exporter,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
		logger:    logger,
	}
}

// Run starts the event consumer and, when configured, the export loop. It
// returns when ctx is cancelled or a loop fails.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.events.ConsumeExpenseEvents(ctx, func(msg *amqp.ExpenseEventMessage) error {
			return w.HandleEvent(ctx, msg)
		})
	})

	if w.exports != nil && w.exporter != nil {
		g.Go(func() error {
			return w.runExportLoop(ctx)
		})
	} else {
		w.logger.Info("export loop disabled, no export queue or exporter configured")
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleEvent reacts to one expense event. Created expenses trigger a
// budget check for their day.
func (w *Worker) HandleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	if msg.Kind != amqp.EventCreated {
		return nil
	}

	expense, err := w.repo.GetExpense(ctx, msg.ID)
	if err != nil {
		// The expense may have been deleted between publish and consume
		w.logger.WarnContext(ctx, "expense from event not found", "id", msg.ID, "error", err)
		return nil
	}

	spent, over, err := w.budget.CheckDay(ctx, expense.Date)
	if err != nil {
		return fmt.Errorf("budget check: %w", err)
	}
	if !over {
		return nil
	}

	key := services.DailyBudgetKey(expense.Date)
	if !w.history.FirstSeen(key) {
		return nil
	}

	alert := notify.Alert{
		Key:   key,
		Title: "Daily budget exceeded",
		Body: fmt.Sprintf("Spent %.2f of your %.2f budget on %s",
			spent.Rupees(), w.budget.Budget().Rupees(), expense.Date.String()),
		Level: amqp.AlertWarning,
	}

	if err := w.notifier.Notify(ctx, alert); err != nil {
		w.logger.WarnContext(ctx, "failed to deliver alert", "key", key, "error", err)
	}
	if w.alerts != nil {
		msg := amqp.NewAlertMessage(alert.Key, alert.Title, alert.Body, alert.Level)
		if err := w.alerts.PublishAlert(ctx, msg); err != nil {
			w.logger.WarnContext(ctx, "failed to publish alert", "key", key, "error", err)
		}
	}
	return nil
}

func (w *Worker) runExportLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("export loop started", "interval", w.interval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("export loop stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportPending(ctx); err != nil {
				w.logger.ErrorContext(ctx, "export batch failed", "error", err)
			}
		}
	}
}

// ExportPending drains one batch of pending rows to the exporter.
func (w *Worker) ExportPending(ctx context.Context) error {
	pending, err := w.exports.PendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("fetch pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	for _, expense := range pending {
		if err := w.exporter.AppendRow(ctx, expense); err != nil {
			w.logger.WarnContext(ctx, "row export failed", "id", expense.ID, "error", err)
			if markErr := w.exports.MarkExportError(ctx, expense.ID, err.Error()); markErr != nil {
				return fmt.Errorf("mark export error: %w", markErr)
			}
			continue
		}
		if err := w.exports.MarkExported(ctx, expense.ID); err != nil {
			return fmt.Errorf("mark exported: %w", err)
		}
	}

	w.logger.InfoContext(ctx, "export batch processed", "count", len(pending))
	return nil
}
