package domain

import "time"

type Feature string

const (
	FeatureAudit   Feature = "audit"
	FeatureContent Feature = "content"
)

// QuotaCounter counts billable invocations of one feature in one calendar month.
type QuotaCounter struct {
	Feature   Feature
	YearMonth string
	Count     int
}

// YearMonth formats the UTC month key used by quota counters.
func YearMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// QuotaRemaining reports free-tier headroom per feature. Unlimited is set for entitled installations.
type QuotaRemaining struct {
	Audit     int
	Content   int
	Unlimited bool
}

// License is the persisted entitlement state.
type License struct {
	Key       string
	Status    string
	UpdatedAt time.Time
}

const (
	LicenseStatusValid = "valid"
	LicenseStatusFree  = "free"
)
