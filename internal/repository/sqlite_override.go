package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/domain"
)

// SQLiteOverrideRepo implements OverrideRepo using a SQLite database.
// Rules keep their insertion order, which decides precedence.
type SQLiteOverrideRepo struct {
	db db.DBTX
}

// NewSQLiteOverrideRepo creates a new SQLiteOverrideRepo.
func NewSQLiteOverrideRepo(conn db.DBTX) *SQLiteOverrideRepo {
	return &SQLiteOverrideRepo{db: conn}
}

func (r *SQLiteOverrideRepo) Add(ctx context.Context, rule *domain.OverrideRule) error {
	var next int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM override_rules`).Scan(&next)
	if err != nil {
		return fmt.Errorf("reading next override position: %w", err)
	}
	return r.insert(ctx, rule, next)
}

func (r *SQLiteOverrideRepo) insert(ctx context.Context, rule *domain.OverrideRule, position int) error {
	query := `INSERT INTO override_rules (id, position, target, key, force_recurrence, exclude,
		new_user_only, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		position,
		string(rule.Target),
		rule.Key,
		nullableRecurrenceToValue(rule.ForceRecurrence),
		boolToInt(rule.Exclude),
		boolToInt(rule.NewUserOnly),
		rule.Note,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting override rule: %w", err)
	}
	return nil
}

func (r *SQLiteOverrideRepo) List(ctx context.Context) ([]domain.OverrideRule, error) {
	query := `SELECT id, target, key, force_recurrence, exclude, new_user_only, note
		FROM override_rules ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying override rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.OverrideRule
	for rows.Next() {
		var (
			rule             domain.OverrideRule
			target           string
			recurrence       sql.NullString
			exclude, newUser int
		)
		if err := rows.Scan(&rule.ID, &target, &rule.Key, &recurrence, &exclude, &newUser, &rule.Note); err != nil {
			return nil, fmt.Errorf("scanning override rule: %w", err)
		}
		rule.Target = domain.OverrideTarget(target)
		rule.ForceRecurrence = nullableRecurrence(recurrence)
		rule.Exclude = intToBool(exclude)
		rule.NewUserOnly = intToBool(newUser)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *SQLiteOverrideRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM override_rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting override rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting override rule: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("override rule %s: %w", id, ErrNotFound)
	}
	return nil
}

// Replace drops every stored rule and stores rules in the given order.
func (r *SQLiteOverrideRepo) Replace(ctx context.Context, rules []domain.OverrideRule) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM override_rules`); err != nil {
		return fmt.Errorf("clearing override rules: %w", err)
	}
	for i := range rules {
		if err := r.insert(ctx, &rules[i], i); err != nil {
			return err
		}
	}
	return nil
}
