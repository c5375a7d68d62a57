package amqp

import (
	"encoding/json"
	"time"
)

// expense event kinds
const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// ExpenseEventMessage announces a change to the expense log. Consumers use
// it to run budget checks and refresh the export queue.
type ExpenseEventMessage struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(id int64, kind string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		ID:        id,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var m ExpenseEventMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// alert levels
const (
	AlertInfo    = "info"
	AlertWarning = "warning"
)

// AlertMessage carries a user-facing notification. Key deduplicates repeat
// alerts for the same condition, e.g. daily_budget_2026-08-25.
type AlertMessage struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

func NewAlertMessage(key, title, body, level string) *AlertMessage {
	return &AlertMessage{
		Key:       key,
		Title:     title,
		Body:      body,
		Level:     level,
		Timestamp: time.Now().UTC(),
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var m AlertMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
