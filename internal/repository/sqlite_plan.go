package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `id, provider_id, provider_name, name, scope_kind, countries, data_mb,
	validity_days, base_price_cents, promo_price_cents, speed_limit_kbps, reduced_speed_kbps,
	possible_throttling, requires_ekyc, tethering, has_ads, can_top_up, subscription,
	pay_as_you_go, new_user_only, requires_phone`

func (r *SQLitePlanRepo) ReplaceAll(ctx context.Context, snap *CatalogSnapshot, plans []*domain.Plan) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans`); err != nil {
		return fmt.Errorf("clearing plans: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM catalog_snapshots`); err != nil {
		return fmt.Errorf("clearing catalog snapshots: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_snapshots (id, source, imported_at, plan_count) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.Source, snap.ImportedAt.UTC().Format(time.RFC3339), len(plans),
	)
	if err != nil {
		return fmt.Errorf("inserting catalog snapshot: %w", err)
	}
	snap.PlanCount = len(plans)

	query := `INSERT INTO plans (snapshot_id, position, ` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, p := range plans {
		countries, err := json.Marshal(p.Scope.Countries())
		if err != nil {
			return fmt.Errorf("encoding countries of plan %s: %w", p.ID, err)
		}
		f := p.Flags
		_, err = r.db.ExecContext(ctx, query,
			snap.ID,
			i,
			p.ID,
			p.ProviderID,
			p.ProviderName,
			p.Name,
			string(p.Scope.Kind()),
			string(countries),
			p.DataMB,
			p.ValidityDays,
			int64(p.BasePrice),
			nullableMoneyToValue(p.PromoPrice),
			f.SpeedLimitKbps,
			f.ReducedSpeedKbps,
			boolToInt(f.PossibleThrottling),
			boolToInt(f.RequiresEKYC),
			nullableBoolToValue(f.Tethering),
			boolToInt(f.HasAds),
			nullableBoolToValue(f.CanTopUp),
			boolToInt(f.Subscription),
			boolToInt(f.PayAsYouGo),
			boolToInt(f.NewUserOnly),
			boolToInt(f.RequiresPhone),
		)
		if err != nil {
			return fmt.Errorf("inserting plan %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY position`
	return r.queryPlans(ctx, query)
}

// ListByCountry returns the plans whose coverage includes country, in
// catalog order.
func (r *SQLitePlanRepo) ListByCountry(ctx context.Context, country string) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE EXISTS (SELECT 1 FROM json_each(plans.countries) WHERE json_each.value = ?)
		ORDER BY position`
	return r.queryPlans(ctx, query, domain.NormalizeCountry(country))
}

func (r *SQLitePlanRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting plans: %w", err)
	}
	return n, nil
}

func (r *SQLitePlanRepo) LatestSnapshot(ctx context.Context) (*CatalogSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source, imported_at, plan_count FROM catalog_snapshots ORDER BY imported_at DESC LIMIT 1`)

	var (
		s          CatalogSnapshot
		importedAt string
	)
	if err := row.Scan(&s.ID, &s.Source, &importedAt, &s.PlanCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("catalog snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning catalog snapshot: %w", err)
	}
	s.ImportedAt = parseTime(importedAt)
	return &s, nil
}

func (r *SQLitePlanRepo) queryPlans(ctx context.Context, query string, args ...any) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func scanPlan(rows *sql.Rows) (*domain.Plan, error) {
	var p domain.Plan
	var scopeKind, countriesJSON string
	var basePrice int64
	var promoPrice, tethering, canTopUp sql.NullInt64
	var throttling, ekyc, ads, subscription, payg, newUser, phone int
	err := rows.Scan(
		&p.ID,
		&p.ProviderID,
		&p.ProviderName,
		&p.Name,
		&scopeKind,
		&countriesJSON,
		&p.DataMB,
		&p.ValidityDays,
		&basePrice,
		&promoPrice,
		&p.Flags.SpeedLimitKbps,
		&p.Flags.ReducedSpeedKbps,
		&throttling,
		&ekyc,
		&tethering,
		&ads,
		&canTopUp,
		&subscription,
		&payg,
		&newUser,
		&phone,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	var countries []string
	if err := json.Unmarshal([]byte(countriesJSON), &countries); err != nil {
		return nil, fmt.Errorf("decoding countries of plan %s: %w", p.ID, err)
	}
	if domain.ScopeKind(scopeKind) == domain.ScopeLocal && len(countries) == 1 {
		p.Scope = domain.LocalScope(countries[0])
	} else {
		p.Scope = domain.RegionalScope(countries...)
	}

	p.BasePrice = domain.Money(basePrice)
	p.PromoPrice = nullableMoney(promoPrice)
	p.Flags.PossibleThrottling = intToBool(throttling)
	p.Flags.RequiresEKYC = intToBool(ekyc)
	p.Flags.Tethering = nullableBool(tethering)
	p.Flags.HasAds = intToBool(ads)
	p.Flags.CanTopUp = nullableBool(canTopUp)
	p.Flags.Subscription = intToBool(subscription)
	p.Flags.PayAsYouGo = intToBool(payg)
	p.Flags.NewUserOnly = intToBool(newUser)
	p.Flags.RequiresPhone = intToBool(phone)
	return &p, nil
}
