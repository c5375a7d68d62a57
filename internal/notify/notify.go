// Package notify delivers user-facing alerts and deduplicates repeats.
package notify

import (
	"context"
	"sync"

	"kharcha/internal/log"
)

// Alert is one user-facing notification.
type Alert struct {
	Key   string
	Title string
	Body  string
	Level string
}

// Notifier delivers alerts to the user.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// LogNotifier writes alerts to the structured log. It stands in for a
// desktop toast in headless deployments.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, alert Alert) error {
	n.logger.InfoContext(ctx, "ALERT",
		"key", alert.Key,
		"level", alert.Level,
		"title", alert.Title,
		"body", alert.Body)
	return nil
}

// History tracks which alert keys were already delivered so a condition
// fires at most once, e.g. one budget alert per day.
type History struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewHistory() *History {
	return &History{seen: make(map[string]bool)}
}

// FirstSeen marks a key and reports whether this was its first occurrence.
func (h *History) FirstSeen(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.seen[key] {
		return false
	}
	h.seen[key] = true
	return true
}

// Reset forgets all delivered keys.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = make(map[string]bool)
}
