package domain

import "time"

// TrustedIssuer is an institution pre-registered as eligible for automated
// verification matching. Maintained by administrators, read-only to the
// pipeline.
type TrustedIssuer struct {
	ID                  string
	Name                string
	Domain              string
	TemplatePatterns    []string
	ConfidenceThreshold float64
	QRVerifyURL         string
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
