package usecase

import (
	"context"

	"campussync/internal/domain"
)

type CertificateRepository interface {
	Create(ctx context.Context, cert domain.Certificate) error
	Get(ctx context.Context, id string) (*domain.Certificate, error)
	Update(ctx context.Context, cert domain.Certificate) error
	ListManualReview(ctx context.Context, orgID string) ([]domain.Certificate, error)
	GetMetadata(ctx context.Context, certificateID string) (*domain.CertificateMetadata, error)
	UpsertMetadata(ctx context.Context, meta domain.CertificateMetadata) error
}

type IssuerRepository interface {
	Create(ctx context.Context, issuer domain.TrustedIssuer) error
	Update(ctx context.Context, issuer domain.TrustedIssuer) error
	Get(ctx context.Context, id string) (*domain.TrustedIssuer, error)
	List(ctx context.Context, activeOnly bool) ([]domain.TrustedIssuer, error)
}

type RuleRepository interface {
	Create(ctx context.Context, rule domain.VerificationRule) error
	Update(ctx context.Context, rule domain.VerificationRule) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]domain.VerificationRule, error)
	// ListActive is read on every scoring pass; rule state is never cached.
	ListActive(ctx context.Context) ([]domain.VerificationRule, error)
}

type CredentialRepository interface {
	// Create inserts a credential; a second credential for the same
	// certificate reports domain.ErrAlreadyIssued.
	Create(ctx context.Context, cred domain.VerifiableCredential) error
	Get(ctx context.Context, id string) (*domain.VerifiableCredential, error)
	GetByCertificate(ctx context.Context, certificateID string) (*domain.VerifiableCredential, error)
	// MarkRevoked flips active -> revoked; revoking an already revoked
	// credential is a no-op that leaves the original timestamp and reason.
	MarkRevoked(ctx context.Context, id, reason string) (*domain.VerifiableCredential, error)
	AppendStatusEntry(ctx context.Context, entry domain.CredentialStatusEntry) error
	ListStatusEntries(ctx context.Context, credentialID string) ([]domain.CredentialStatusEntry, error)
}

type JobRepository interface {
	Enqueue(ctx context.Context, job domain.Job) error
	Get(ctx context.Context, id string) (*domain.Job, error)
	// ClaimNext atomically moves the oldest pending job to processing.
	// Returns nil when the queue is empty.
	ClaimNext(ctx context.Context) (*domain.Job, error)
	Complete(ctx context.Context, id string, result []byte) error
	Fail(ctx context.Context, id string, result []byte) error
	List(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error)
}

type AuditRepository interface {
	Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
	List(ctx context.Context, orgID string) ([]domain.AuditEvent, error)
}

// OCRClient is the external text-extraction collaborator. It returns raw
// text plus the engine's own confidence.
type OCRClient interface {
	Extract(ctx context.Context, fileRef string) (text string, confidence float64, err error)
}

// NormalizationClient delegates field cleanup to an external
// language-model-style service. Callers must tolerate any error from it.
type NormalizationClient interface {
	Normalize(ctx context.Context, fields domain.CertificateFields) (domain.CertificateFields, []string, error)
}

type IssuancePolicy interface {
	Evaluate(ctx context.Context, input domain.IssuancePolicyInput) (domain.PolicyEvaluation, error)
}

type CredentialSigner interface {
	Sign(payload []byte) ([]byte, error)
	VerificationMethod() string
}

type Notifier interface {
	DecisionMade(ctx context.Context, cert domain.Certificate, outcome domain.DecisionOutcome) error
	CredentialRevoked(ctx context.Context, cred domain.VerifiableCredential) error
	ReviewDigest(ctx context.Context, certs []domain.Certificate) error
}

// IssuerCache holds a snapshot of the trusted-issuer registry.
type IssuerCache interface {
	Get(ctx context.Context) ([]domain.TrustedIssuer, bool, error)
	Put(ctx context.Context, issuers []domain.TrustedIssuer) error
}
