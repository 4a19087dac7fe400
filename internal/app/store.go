package app

import (
	"time"

	"github.com/alexanderramin/roamer/internal/domain"
)

// CatalogSummary describes the stored catalog.
type CatalogSummary struct {
	SnapshotID string
	Source     string
	ImportedAt time.Time
	Plans      int
	Providers  int
	Local      int
	Regional   int
	Unlimited  int
	Free       int
	Countries  []string
}

type PromoEntry struct {
	ProviderID string
	Recurrence domain.PromoRecurrence
	Name       string
	UpdatedAt  time.Time
}

// OverrideImportResult counts what an overrides import stored.
type OverrideImportResult struct {
	Rules      int
	HassleUnit *domain.Money
	UnknownAs  *domain.PromoRecurrence
}
