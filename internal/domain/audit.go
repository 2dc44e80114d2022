package domain

import "time"

type AuditEventType string

const (
	AuditCertificateDecided  AuditEventType = "certificate.decided"
	AuditCertificateReviewed AuditEventType = "certificate.reviewed"
	AuditCertificateReverted AuditEventType = "certificate.reverted"
	AuditCredentialIssued    AuditEventType = "credential.issued"
	AuditCredentialRevoked   AuditEventType = "credential.revoked"
	AuditJobFailed           AuditEventType = "job.failed"
)

type AuditActorType string

const (
	AuditActorSystem AuditActorType = "system"
	AuditActorUser   AuditActorType = "user"
)

type AuditResult string

const (
	AuditResultSuccess AuditResult = "success"
	AuditResultFailure AuditResult = "failure"
)

// AuditSystemOrgID groups events that have no organization scope.
const AuditSystemOrgID = "00000000-0000-0000-0000-000000000000"

// AuditEvent is one row of the append-only, hash-chained audit log. Seq,
// PrevEventHash and EventHash are assigned by the repository on append.
type AuditEvent struct {
	ID            string
	OrgID         string
	Seq           int64
	EventType     AuditEventType
	Payload       map[string]any
	PayloadHash   string
	PrevEventHash string
	EventHash     string
	ActorType     AuditActorType
	ActorID       string
	TargetType    string
	TargetID      string
	Result        AuditResult
	CreatedAt     time.Time
}
