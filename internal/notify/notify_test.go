package notify

import "testing"

func TestHistoryFirstSeen(t *testing.T) {
	h := NewHistory()

	if !h.FirstSeen("daily_budget_2026-08-25") {
		t.Error("first occurrence reported as seen")
	}
	if h.FirstSeen("daily_budget_2026-08-25") {
		t.Error("second occurrence reported as first")
	}
	if !h.FirstSeen("daily_budget_2026-08-26") {
		t.Error("different key reported as seen")
	}

	h.Reset()
	if !h.FirstSeen("daily_budget_2026-08-25") {
		t.Error("key still seen after Reset")
	}
}
