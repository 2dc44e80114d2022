package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campussync/internal/domain"

	"github.com/google/uuid"
)

// CredentialService issues and revokes verifiable credentials. Issuance
// binds the credential subject to the certificate's owning student; a wrong
// subject identifier would silently produce a credential unlinkable to its
// holder, so the binding is validated before anything is signed.
type CredentialService struct {
	Credentials  CredentialRepository
	Certificates CertificateRepository
	Signer       CredentialSigner
	Policy       IssuancePolicy
	Audit        *AuditEmitter
	Notifier     Notifier
	IssuerDID    string
	Logger       *slog.Logger

	now func() time.Time
}

type CredentialServiceDeps struct {
	Credentials  CredentialRepository
	Certificates CertificateRepository
	Signer       CredentialSigner
	Policy       IssuancePolicy
	Audit        *AuditEmitter
	Notifier     Notifier
	IssuerDID    string
	Logger       *slog.Logger
}

func NewCredentialService(deps CredentialServiceDeps) *CredentialService {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &CredentialService{
		Credentials:  deps.Credentials,
		Certificates: deps.Certificates,
		Signer:       deps.Signer,
		Policy:       deps.Policy,
		Audit:        deps.Audit,
		Notifier:     deps.Notifier,
		IssuerDID:    deps.IssuerDID,
		Logger:       log,
		now:          time.Now,
	}
}

// Issue creates the credential for a verified certificate. A second call
// for the same certificate reports domain.ErrAlreadyIssued; at most one
// active credential per certificate is enforced by a storage-level
// uniqueness constraint, not in-process coordination.
func (s *CredentialService) Issue(ctx context.Context, certificateID string, actor domain.Principal) (domain.VerifiableCredential, error) {
	cert, err := s.Certificates.Get(ctx, certificateID)
	if err != nil {
		return domain.VerifiableCredential{}, fmt.Errorf("load certificate %s: %w", certificateID, err)
	}
	if strings.TrimSpace(cert.StudentID) == "" {
		return domain.VerifiableCredential{}, domain.ErrMissingSubject
	}
	if cert.Status != domain.StatusVerified {
		return domain.VerifiableCredential{}, domain.ErrCertificateNotVerified
	}
	if existing, err := s.Credentials.GetByCertificate(ctx, certificateID); err != nil {
		return domain.VerifiableCredential{}, err
	} else if existing != nil {
		return *existing, domain.ErrAlreadyIssued
	}

	if s.Policy != nil {
		eval, err := s.Policy.Evaluate(ctx, domain.IssuancePolicyInput{
			Certificate: domain.IssuanceCertificate{
				ID:           cert.ID,
				StudentID:    cert.StudentID,
				OrgID:        cert.OrgID,
				Title:        cert.Title,
				Institution:  cert.Institution,
				DateIssued:   cert.DateIssued,
				AutoApproved: cert.AutoApproved,
				Confidence:   cert.Confidence,
			},
		})
		if err != nil {
			return domain.VerifiableCredential{}, fmt.Errorf("evaluate issuance policy: %w", err)
		}
		if !eval.Result.Allow {
			return domain.VerifiableCredential{}, fmt.Errorf("%w: %s", domain.ErrIssuanceDenied, denyCodes(eval.Result.Deny))
		}
	}

	now := s.now().UTC()
	cred := domain.VerifiableCredential{
		ID:            uuid.NewString(),
		CertificateID: cert.ID,
		StudentID:     cert.StudentID,
		IssuerDID:     s.IssuerDID,
		Status:        domain.CredentialActive,
		IssuedAt:      now,
	}
	doc := domain.CredentialDocument{
		Context:      []string{"https://www.w3.org/2018/credentials/v1"},
		ID:           "urn:uuid:" + cred.ID,
		Type:         []string{"VerifiableCredential", "CampusCredential"},
		Issuer:       s.IssuerDID,
		IssuanceDate: now.Format(time.RFC3339),
		Subject: domain.CredentialSubject{
			ID:            cert.StudentID,
			CertificateID: cert.ID,
			Title:         cert.Title,
			Institution:   cert.Institution,
			DateIssued:    cert.DateIssued,
			Description:   cert.Description,
		},
	}
	proof, err := s.signDocument(doc, now)
	if err != nil {
		return domain.VerifiableCredential{}, err
	}
	doc.Proof = proof
	cred.Document = doc

	if err := s.Credentials.Create(ctx, cred); err != nil {
		return domain.VerifiableCredential{}, err
	}
	if err := s.Credentials.AppendStatusEntry(ctx, domain.CredentialStatusEntry{
		CredentialID: cred.ID,
		Status:       domain.CredentialActive,
		Reason:       "issued",
		CreatedAt:    now,
	}); err != nil {
		return domain.VerifiableCredential{}, fmt.Errorf("append status entry: %w", err)
	}

	s.Audit.Emit(ctx, domain.AuditEvent{
		OrgID:      cert.OrgID,
		EventType:  domain.AuditCredentialIssued,
		ActorType:  actorType(actor),
		ActorID:    actor.Subject,
		TargetType: "credential",
		TargetID:   cred.ID,
		Result:     domain.AuditResultSuccess,
		Payload: map[string]any{
			"certificate_id": cert.ID,
			"student_id":     cert.StudentID,
		},
	})
	return cred, nil
}

// Revoke is one-way: there is no un-revoke. Revoking an already revoked
// credential is a no-op that reports the stored state.
func (s *CredentialService) Revoke(ctx context.Context, credentialID, reason string, actor domain.Principal) (domain.VerifiableCredential, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.VerifiableCredential{}, fmt.Errorf("%w: revocation reason is required", domain.ErrValidation)
	}
	existing, err := s.Credentials.Get(ctx, credentialID)
	if err != nil {
		return domain.VerifiableCredential{}, err
	}
	if existing == nil {
		return domain.VerifiableCredential{}, domain.ErrNotFound
	}
	if existing.Revoked() {
		return *existing, nil
	}

	cred, err := s.Credentials.MarkRevoked(ctx, credentialID, reason)
	if err != nil {
		return domain.VerifiableCredential{}, err
	}
	if err := s.Credentials.AppendStatusEntry(ctx, domain.CredentialStatusEntry{
		CredentialID: cred.ID,
		Status:       domain.CredentialRevoked,
		Reason:       reason,
		CreatedAt:    s.now().UTC(),
	}); err != nil {
		return domain.VerifiableCredential{}, fmt.Errorf("append status entry: %w", err)
	}

	s.Audit.Emit(ctx, domain.AuditEvent{
		EventType:  domain.AuditCredentialRevoked,
		ActorType:  actorType(actor),
		ActorID:    actor.Subject,
		TargetType: "credential",
		TargetID:   cred.ID,
		Result:     domain.AuditResultSuccess,
		Payload: map[string]any{
			"certificate_id": cred.CertificateID,
			"reason":         reason,
		},
	})
	if s.Notifier != nil {
		if err := s.Notifier.CredentialRevoked(ctx, *cred); err != nil {
			s.Logger.Warn("revocation notification failed", "credential_id", cred.ID, "err", err)
		}
	}
	return *cred, nil
}

// Status returns the credential with its status registry so that a revoked
// credential is never presented as still valid.
func (s *CredentialService) Status(ctx context.Context, credentialID string) (domain.VerifiableCredential, []domain.CredentialStatusEntry, error) {
	cred, err := s.Credentials.Get(ctx, credentialID)
	if err != nil {
		return domain.VerifiableCredential{}, nil, err
	}
	if cred == nil {
		return domain.VerifiableCredential{}, nil, domain.ErrNotFound
	}
	entries, err := s.Credentials.ListStatusEntries(ctx, credentialID)
	if err != nil {
		return domain.VerifiableCredential{}, nil, err
	}
	return *cred, entries, nil
}

func (s *CredentialService) signDocument(doc domain.CredentialDocument, now time.Time) (*domain.Proof, error) {
	if s.Signer == nil {
		return nil, fmt.Errorf("credential signer is not configured")
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal credential document: %w", err)
	}
	sig, err := s.Signer.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("sign credential document: %w", err)
	}
	return &domain.Proof{
		Type:               "Ed25519Signature2020",
		Created:            now.Format(time.RFC3339),
		VerificationMethod: s.Signer.VerificationMethod(),
		ProofValue:         base64.StdEncoding.EncodeToString(sig),
	}, nil
}

func denyCodes(denies []domain.PolicyDeny) string {
	codes := make([]string, 0, len(denies))
	for _, d := range denies {
		if d.Code != "" {
			codes = append(codes, d.Code)
		}
	}
	if len(codes) == 0 {
		return "POLICY_DENY"
	}
	return strings.Join(codes, ",")
}

func actorType(p domain.Principal) domain.AuditActorType {
	if p.Subject == "" || p.Subject == "pipeline" {
		return domain.AuditActorSystem
	}
	return domain.AuditActorUser
}
