package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Healthcare     Category = "Healthcare"
	Bills          Category = "Bills"
	Education      Category = "Education"
	Other          Category = "Other"
)

type (
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Paise int64
	}

	Expense struct {
		ID          int64 // Database ID, zero until persisted
		Date        Date
		Amount      Money
		Category    Category
		Description string
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrEmptyDescription = errors.New("empty description")
	ErrExpenseNotFound  = errors.New("expense not found")
)

// Categories lists the fixed category set, in display order.
func Categories() []Category {
	return []Category{Food, Transportation, Shopping, Entertainment, Healthcare, Bills, Education, Other}
}

// KnownCategory reports whether c belongs to the fixed category set.
func KnownCategory(c Category) bool {
	switch c {
	case Food, Transportation, Shopping, Entertainment, Healthcare, Bills, Education, Other:
		return true
	default:
		return false
	}
}

// ParseCategory matches a label against the known set, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Paise <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !KnownCategory(e.Category) {
		return ErrUnknownCategory
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
