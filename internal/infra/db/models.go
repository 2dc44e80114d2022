package db

import (
	"time"

	"gorm.io/datatypes"
)

type CertificateModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	StudentID   string `gorm:"index;not null"`
	OrgID       string `gorm:"index;not null"`
	Title       string
	Institution string
	DateIssued  string
	Description string
	FileRef     string

	Status       string  `gorm:"index;not null"`
	ReviewState  string  `gorm:"index;not null"`
	AutoApproved bool    `gorm:"not null"`
	Confidence   float64 `gorm:"not null"`

	ReviewedBy   string
	ReviewReason string
	DecidedAt    *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CertificateMetadataModel struct {
	CertificateID      string `gorm:"type:uuid;primaryKey"`
	QRPayload          string
	QRVerified         bool
	LogoMatchScore     float64
	TemplateMatchScore float64
	AIConfidence       float64
	Details            datatypes.JSON
	UpdatedAt          time.Time `gorm:"not null"`
}

type TrustedIssuerModel struct {
	ID                  string `gorm:"type:uuid;primaryKey"`
	Name                string `gorm:"uniqueIndex;not null"`
	Domain              string
	TemplatePatterns    datatypes.JSON
	ConfidenceThreshold float64
	QRVerifyURL         string
	Active              bool      `gorm:"index;not null"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

type VerificationRuleModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Type      string `gorm:"not null"`
	Weight    float64
	Threshold float64
	Config    datatypes.JSON
	Active    bool      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// VerifiableCredentialModel enforces one credential per certificate at the
// schema level; issuance idempotence rests on this index.
type VerifiableCredentialModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	CertificateID string `gorm:"type:uuid;uniqueIndex;not null"`
	StudentID     string `gorm:"index;not null"`
	IssuerDID     string `gorm:"not null"`
	Document      datatypes.JSON
	Status        string    `gorm:"index;not null"`
	IssuedAt      time.Time `gorm:"not null"`
	RevokedAt     *time.Time
	RevokeReason  string
}

type CredentialStatusEntryModel struct {
	ID           int64  `gorm:"primaryKey"`
	CredentialID string `gorm:"type:uuid;index;not null"`
	Status       string `gorm:"not null"`
	Reason       string
	CreatedAt    time.Time `gorm:"not null"`
}

type JobModel struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	Type       string `gorm:"index;not null"`
	Payload    datatypes.JSON
	Status     string `gorm:"index;not null"`
	Result     datatypes.JSON
	CreatedAt  time.Time `gorm:"index;not null"`
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// AuditEventModel rows form a hash chain per organization; the composite
// unique index makes a gap or fork in the sequence a constraint violation.
type AuditEventModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	OrgID         string `gorm:"uniqueIndex:idx_audit_org_seq;not null"`
	Seq           int64  `gorm:"uniqueIndex:idx_audit_org_seq;not null"`
	EventType     string `gorm:"index;not null"`
	Payload       datatypes.JSON
	PayloadHash   string `gorm:"not null"`
	PrevEventHash string `gorm:"not null"`
	EventHash     string `gorm:"not null"`
	ActorType     string `gorm:"not null"`
	ActorID       string
	TargetType    string
	TargetID      string `gorm:"index"`
	Result        string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
}
