package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/roamer/internal/domain"
)

// parseTime parses an RFC3339 column, returning the zero time on bad input.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableMoneyToValue converts a *domain.Money to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the cent amount.
func nullableMoneyToValue(m *domain.Money) interface{} {
	if m == nil {
		return nil
	}
	return int64(*m)
}

func nullableMoney(v sql.NullInt64) *domain.Money {
	if !v.Valid {
		return nil
	}
	return domain.MoneyPtr(domain.Money(v.Int64))
}

// nullableBoolToValue stores an unknown flag as NULL.
func nullableBoolToValue(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

func nullableBool(v sql.NullInt64) *bool {
	if !v.Valid {
		return nil
	}
	return domain.BoolPtr(v.Int64 != 0)
}

func nullableRecurrenceToValue(r *domain.PromoRecurrence) interface{} {
	if r == nil {
		return nil
	}
	return string(*r)
}

func nullableRecurrence(v sql.NullString) *domain.PromoRecurrence {
	if !v.Valid {
		return nil
	}
	r := domain.PromoRecurrence(v.String)
	return &r
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
