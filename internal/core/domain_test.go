package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Date:        NewDate(2026, 8, 25),
		Amount:      Money{Paise: 25000},
		Category:    Food,
		Description: "Lunch at restaurant",
	}

	tests := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{
			name:    "valid expense",
			mutate:  func(e *Expense) {},
			wantErr: nil,
		},
		{
			name:    "zero date",
			mutate:  func(e *Expense) { e.Date = Date{} },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "zero amount",
			mutate:  func(e *Expense) { e.Amount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(e *Expense) { e.Amount = Money{Paise: -100} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown category",
			mutate:  func(e *Expense) { e.Category = "Groceries" },
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "empty description",
			mutate:  func(e *Expense) { e.Description = "   " },
			wantErr: ErrEmptyDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseValidateLongDescription(t *testing.T) {
	e := Expense{
		Date:        NewDate(2026, 1, 2),
		Amount:      Money{Paise: 100},
		Category:    Other,
		Description: strings.Repeat("x", 201),
	}
	if err := e.Validate(); err == nil {
		t.Error("Validate() accepted a 201-char description")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"Food", Food, false},
		{"food", Food, false},
		{"  TRANSPORTATION  ", Transportation, false},
		{"other", Other, false},
		{"Groceries", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-25")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.Year() != 2026 || d.Month() != 8 || d.Day() != 25 {
		t.Errorf("ParseDate() = %v, want 2026-08-25", d)
	}

	if _, err := ParseDate("25/08/2026"); err == nil {
		t.Error("ParseDate() accepted a non-ISO date")
	}
	if _, err := ParseDate("2026-13-01"); err == nil {
		t.Error("ParseDate() accepted month 13")
	}
}

func TestDateString(t *testing.T) {
	d := Date{Time: time.Date(2026, 2, 3, 15, 4, 5, 0, time.UTC)}
	if got := d.String(); got != "2026-02-03" {
		t.Errorf("Date.String() = %q, want %q", got, "2026-02-03")
	}
}
