package domain

import "time"

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

// ReviewState qualifies a pending certificate. A certificate flagged
// manual_review stays pending until a reviewer decides.
type ReviewState string

const (
	ReviewStateNone   ReviewState = "none"
	ReviewStateManual ReviewState = "manual_review"
)

type Certificate struct {
	ID          string
	StudentID   string
	OrgID       string
	Title       string
	Institution string
	DateIssued  string
	Description string
	FileRef     string

	Status       VerificationStatus
	ReviewState  ReviewState
	AutoApproved bool
	Confidence   float64

	ReviewedBy   string
	ReviewReason string
	DecidedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Certificate) Terminal() bool {
	return c.Status == StatusVerified || c.Status == StatusRejected
}

// CertificateMetadata is owned one-to-one by its certificate and written
// exclusively by the verification pipeline.
type CertificateMetadata struct {
	CertificateID      string
	QRPayload          string
	QRVerified         bool
	LogoMatchScore     float64
	TemplateMatchScore float64
	AIConfidence       float64
	Details            map[string]any
	UpdatedAt          time.Time
}
