package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/domain"
)

// SQLitePromoRepo implements PromoRepo using a SQLite database.
type SQLitePromoRepo struct {
	db db.DBTX
}

// NewSQLitePromoRepo creates a new SQLitePromoRepo.
func NewSQLitePromoRepo(conn db.DBTX) *SQLitePromoRepo {
	return &SQLitePromoRepo{db: conn}
}

// Upsert keeps the stored provider name when rec.Name is empty.
func (r *SQLitePromoRepo) Upsert(ctx context.Context, rec *PromoRecord) error {
	now := nowUTC()
	query := `INSERT INTO promo_recurrence (provider_id, recurrence, name, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(provider_id) DO UPDATE SET
			recurrence = excluded.recurrence,
			name = CASE WHEN excluded.name = '' THEN promo_recurrence.name ELSE excluded.name END,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, rec.ProviderID, string(rec.Recurrence), rec.Name, now)
	if err != nil {
		return fmt.Errorf("upserting promo recurrence for %s: %w", rec.ProviderID, err)
	}
	rec.UpdatedAt = parseTime(now)
	return nil
}

func (r *SQLitePromoRepo) List(ctx context.Context) ([]*PromoRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT provider_id, recurrence, name, updated_at FROM promo_recurrence ORDER BY provider_id`)
	if err != nil {
		return nil, fmt.Errorf("querying promo recurrence: %w", err)
	}
	defer rows.Close()

	var out []*PromoRecord
	for rows.Next() {
		var (
			rec                   PromoRecord
			recurrence, updatedAt string
		)
		if err := rows.Scan(&rec.ProviderID, &recurrence, &rec.Name, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning promo recurrence: %w", err)
		}
		rec.Recurrence = domain.PromoRecurrence(recurrence)
		rec.UpdatedAt = parseTime(updatedAt)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Table returns the stored recurrences as a lookup table.
func (r *SQLitePromoRepo) Table(ctx context.Context) (domain.PromoTable, error) {
	recs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	table := make(domain.PromoTable, len(recs))
	for _, rec := range recs {
		table[rec.ProviderID] = rec.Recurrence
	}
	return table, nil
}

func (r *SQLitePromoRepo) Delete(ctx context.Context, providerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promo_recurrence WHERE provider_id = ?`, providerID)
	if err != nil {
		return fmt.Errorf("deleting promo recurrence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting promo recurrence: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("promo recurrence %s: %w", providerID, ErrNotFound)
	}
	return nil
}
