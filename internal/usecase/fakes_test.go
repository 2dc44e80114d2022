package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campussync/internal/domain"

	"github.com/google/uuid"
)

type memCertRepo struct {
	mu    sync.Mutex
	certs map[string]domain.Certificate
	meta  map[string]domain.CertificateMetadata
}

func newMemCertRepo() *memCertRepo {
	return &memCertRepo{
		certs: make(map[string]domain.Certificate),
		meta:  make(map[string]domain.CertificateMetadata),
	}
}

func (r *memCertRepo) Create(_ context.Context, cert domain.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.certs[cert.ID] = cert
	return nil
}

func (r *memCertRepo) Get(_ context.Context, id string) (*domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cert, ok := r.certs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cert
	return &out, nil
}

func (r *memCertRepo) Update(_ context.Context, cert domain.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.certs[cert.ID]; !ok {
		return domain.ErrNotFound
	}
	r.certs[cert.ID] = cert
	return nil
}

func (r *memCertRepo) ListManualReview(_ context.Context, orgID string) ([]domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Certificate
	for _, cert := range r.certs {
		if cert.Status == domain.StatusPending && cert.ReviewState == domain.ReviewStateManual {
			if orgID == "" || cert.OrgID == orgID {
				out = append(out, cert)
			}
		}
	}
	return out, nil
}

func (r *memCertRepo) GetMetadata(_ context.Context, certificateID string) (*domain.CertificateMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, ok := r.meta[certificateID]
	if !ok {
		return nil, nil
	}
	out := meta
	return &out, nil
}

func (r *memCertRepo) UpsertMetadata(_ context.Context, meta domain.CertificateMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta[meta.CertificateID] = meta
	return nil
}

type memRuleRepo struct {
	mu    sync.Mutex
	rules map[string]domain.VerificationRule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: make(map[string]domain.VerificationRule)}
}

func (r *memRuleRepo) Create(_ context.Context, rule domain.VerificationRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID] = rule
	return nil
}

func (r *memRuleRepo) Update(_ context.Context, rule domain.VerificationRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[rule.ID]; !ok {
		return domain.ErrNotFound
	}
	r.rules[rule.ID] = rule
	return nil
}

func (r *memRuleRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return domain.ErrNotFound
	}
	rule.Active = active
	r.rules[id] = rule
	return nil
}

func (r *memRuleRepo) List(_ context.Context) ([]domain.VerificationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.VerificationRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	return out, nil
}

func (r *memRuleRepo) ListActive(_ context.Context) ([]domain.VerificationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VerificationRule
	for _, rule := range r.rules {
		if rule.Active {
			out = append(out, rule)
		}
	}
	return out, nil
}

type memCredRepo struct {
	mu      sync.Mutex
	creds   map[string]domain.VerifiableCredential
	byCert  map[string]string
	entries map[string][]domain.CredentialStatusEntry
}

func newMemCredRepo() *memCredRepo {
	return &memCredRepo{
		creds:   make(map[string]domain.VerifiableCredential),
		byCert:  make(map[string]string),
		entries: make(map[string][]domain.CredentialStatusEntry),
	}
}

func (r *memCredRepo) Create(_ context.Context, cred domain.VerifiableCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCert[cred.CertificateID]; ok {
		return domain.ErrAlreadyIssued
	}
	r.creds[cred.ID] = cred
	r.byCert[cred.CertificateID] = cred.ID
	return nil
}

func (r *memCredRepo) Get(_ context.Context, id string) (*domain.VerifiableCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.creds[id]
	if !ok {
		return nil, nil
	}
	out := cred
	return &out, nil
}

func (r *memCredRepo) GetByCertificate(_ context.Context, certificateID string) (*domain.VerifiableCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCert[certificateID]
	if !ok {
		return nil, nil
	}
	cred := r.creds[id]
	return &cred, nil
}

func (r *memCredRepo) MarkRevoked(_ context.Context, id, reason string) (*domain.VerifiableCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.creds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if cred.Status != domain.CredentialRevoked {
		now := time.Now().UTC()
		cred.Status = domain.CredentialRevoked
		cred.RevokedAt = &now
		cred.RevokeReason = reason
		r.creds[id] = cred
	}
	out := cred
	return &out, nil
}

func (r *memCredRepo) AppendStatusEntry(_ context.Context, entry domain.CredentialStatusEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.CredentialID] = append(r.entries[entry.CredentialID], entry)
	return nil
}

func (r *memCredRepo) ListStatusEntries(_ context.Context, credentialID string) ([]domain.CredentialStatusEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CredentialStatusEntry(nil), r.entries[credentialID]...), nil
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs []domain.Job
}

func newMemJobRepo() *memJobRepo { return &memJobRepo{} }

func (r *memJobRepo) Enqueue(_ context.Context, job domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Status = domain.JobPending
	job.CreatedAt = time.Now().UTC()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *memJobRepo) Get(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.ID == id {
			out := job
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memJobRepo) ClaimNext(_ context.Context) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].Status == domain.JobPending {
			now := time.Now().UTC()
			r.jobs[i].Status = domain.JobProcessing
			r.jobs[i].StartedAt = &now
			out := r.jobs[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memJobRepo) Complete(_ context.Context, id string, result []byte) error {
	return r.finish(id, domain.JobCompleted, result)
}

func (r *memJobRepo) Fail(_ context.Context, id string, result []byte) error {
	return r.finish(id, domain.JobFailed, result)
}

func (r *memJobRepo) finish(id string, status domain.JobStatus, result []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			now := time.Now().UTC()
			r.jobs[i].Status = status
			r.jobs[i].Result = result
			r.jobs[i].FinishedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memJobRepo) List(_ context.Context, status domain.JobStatus, limit int) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Job
	for _, job := range r.jobs {
		if status == "" || job.Status == status {
			out = append(out, job)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memJobRepo) countByStatus(status domain.JobStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, job := range r.jobs {
		if job.Status == status {
			n++
		}
	}
	return n
}

type memAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *memAuditRepo) Append(_ context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.Seq = int64(len(r.events) + 1)
	r.events = append(r.events, event)
	return event, nil
}

func (r *memAuditRepo) List(_ context.Context, orgID string) ([]domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditEvent
	for _, e := range r.events {
		if orgID == "" || e.OrgID == orgID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memAuditRepo) eventTypes() []domain.AuditEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type stubOCR struct {
	text       string
	confidence float64
	err        error
}

func (s *stubOCR) Extract(context.Context, string) (string, float64, error) {
	return s.text, s.confidence, s.err
}

type stubNormalizer struct {
	fields  domain.CertificateFields
	coerced []string
	err     error
	calls   int
}

func (s *stubNormalizer) Normalize(_ context.Context, _ domain.CertificateFields) (domain.CertificateFields, []string, error) {
	s.calls++
	return s.fields, s.coerced, s.err
}

type staticDirectory struct {
	issuers []domain.TrustedIssuer
	err     error
}

func (d *staticDirectory) ActiveIssuers(context.Context) ([]domain.TrustedIssuer, error) {
	return d.issuers, d.err
}

type fakeSigner struct{ fail bool }

func (s *fakeSigner) Sign(payload []byte) ([]byte, error) {
	if s.fail {
		return nil, errors.New("signer unavailable")
	}
	return []byte(fmt.Sprintf("sig-%d", len(payload))), nil
}

func (s *fakeSigner) VerificationMethod() string { return "did:campus:issuer#key-1" }

type recordingNotifier struct {
	mu        sync.Mutex
	decisions []string
	revoked   []string
	digests   int
	err       error
}

func (n *recordingNotifier) DecisionMade(_ context.Context, cert domain.Certificate, _ domain.DecisionOutcome) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, cert.ID)
	return n.err
}

func (n *recordingNotifier) CredentialRevoked(_ context.Context, cred domain.VerifiableCredential) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revoked = append(n.revoked, cred.ID)
	return n.err
}

func (n *recordingNotifier) ReviewDigest(_ context.Context, _ []domain.Certificate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.digests++
	return n.err
}

type allowPolicy struct {
	allow bool
	codes []string
	err   error
}

func (p *allowPolicy) Evaluate(context.Context, domain.IssuancePolicyInput) (domain.PolicyEvaluation, error) {
	if p.err != nil {
		return domain.PolicyEvaluation{}, p.err
	}
	denies := make([]domain.PolicyDeny, 0, len(p.codes))
	for _, code := range p.codes {
		denies = append(denies, domain.PolicyDeny{Code: code})
	}
	return domain.PolicyEvaluation{Result: domain.PolicyResult{Allow: p.allow, Deny: denies}}, nil
}
