package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campussync/internal/domain"
)

// VerificationService runs the pipeline for one certificate: extraction,
// normalization, institution matching, rule-weighted scoring and the
// threshold decision, then persists the outcome.
type VerificationService struct {
	Certificates CertificateRepository
	Jobs         JobRepository
	Rules        RuleRepository
	OCR          OCRClient

	Extractor  *FieldExtractor
	Normalizer *FieldNormalizer
	Matcher    *InstitutionMatcher
	Scorer     *PolicyScorer
	Engine     *DecisionEngine

	Credentials *CredentialService
	AutoIssue   bool

	Audit    *AuditEmitter
	Notifier Notifier
	Logger   *slog.Logger

	now func() time.Time
}

type VerificationServiceDeps struct {
	Certificates CertificateRepository
	Jobs         JobRepository
	Rules        RuleRepository
	OCR          OCRClient
	Normalizer   *FieldNormalizer
	Matcher      *InstitutionMatcher
	Engine       *DecisionEngine
	Credentials  *CredentialService
	AutoIssue    bool
	Audit        *AuditEmitter
	Notifier     Notifier
	Logger       *slog.Logger
}

func NewVerificationService(deps VerificationServiceDeps) *VerificationService {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	engine := deps.Engine
	if engine == nil {
		engine = NewDecisionEngine(DefaultHighThreshold, DefaultLowThreshold)
	}
	return &VerificationService{
		Certificates: deps.Certificates,
		Jobs:         deps.Jobs,
		Rules:        deps.Rules,
		OCR:          deps.OCR,
		Extractor:    &FieldExtractor{},
		Normalizer:   deps.Normalizer,
		Matcher:      deps.Matcher,
		Scorer:       &PolicyScorer{},
		Engine:       engine,
		Credentials:  deps.Credentials,
		AutoIssue:    deps.AutoIssue,
		Audit:        deps.Audit,
		Notifier:     deps.Notifier,
		Logger:       log,
		now:          time.Now,
	}
}

// VerificationReport is stored as the verification job result.
type VerificationReport struct {
	CertificateID string                   `json:"certificate_id"`
	Fields        domain.CertificateFields `json:"fields"`
	Extraction    float64                  `json:"extraction_confidence"`
	Normalization float64                  `json:"normalization_confidence"`
	Institution   domain.InstitutionMatch  `json:"institution_match"`
	Breakdown     domain.ScoreBreakdown    `json:"breakdown"`
	Outcome       domain.DecisionOutcome   `json:"outcome"`
}

// ProcessOCR resolves raw text for the certificate's file and chains a
// verification job. An OCR failure fails the job; there is no text to work
// with downstream.
func (s *VerificationService) ProcessOCR(ctx context.Context, payload domain.OCRPayload) (domain.VerificationPayload, error) {
	if payload.CertificateID == "" {
		return domain.VerificationPayload{}, fmt.Errorf("%w: certificate_id is required", domain.ErrValidation)
	}
	if s.OCR == nil {
		return domain.VerificationPayload{}, errors.New("ocr client is not configured")
	}
	text, confidence, err := s.OCR.Extract(ctx, payload.FileRef)
	if err != nil {
		return domain.VerificationPayload{}, fmt.Errorf("ocr extract: %w", err)
	}
	next := domain.VerificationPayload{
		CertificateID: payload.CertificateID,
		RawText:       text,
		OCRConfidence: confidence,
		DocumentType:  payload.DocumentType,
	}
	raw, err := domain.EncodePayload(next)
	if err != nil {
		return domain.VerificationPayload{}, err
	}
	if err := s.Jobs.Enqueue(ctx, domain.Job{Type: domain.JobVerification, Payload: raw, Status: domain.JobPending}); err != nil {
		return domain.VerificationPayload{}, fmt.Errorf("enqueue verification job: %w", err)
	}
	return next, nil
}

// ProcessVerification runs the full pipeline. Extraction, normalization
// and matching degrade softly; rule reads and persistence failures fail
// the job loudly.
func (s *VerificationService) ProcessVerification(ctx context.Context, payload domain.VerificationPayload) (VerificationReport, error) {
	cert, err := s.Certificates.Get(ctx, payload.CertificateID)
	if err != nil {
		return VerificationReport{}, fmt.Errorf("load certificate %s: %w", payload.CertificateID, err)
	}
	if cert.Terminal() {
		// Re-evaluation of a decided certificate must be explicit (revert).
		return VerificationReport{}, domain.ErrCertificateNotPending
	}

	extraction := s.Extractor.Extract(payload.RawText, payload.DocumentType)
	normalization := s.Normalizer.Normalize(ctx, extraction.Fields)
	match := s.Matcher.Match(ctx, firstNonEmpty(normalization.Fields.Institution, cert.Institution), nil)

	// Rule state is read fresh on every scoring pass.
	rules, err := s.Rules.ListActive(ctx)
	if err != nil {
		return VerificationReport{}, fmt.Errorf("load active rules: %w", err)
	}

	templateScore := 0.0
	if match.MatchedTemplate != "" {
		templateScore = match.Score
	}
	qrVerified := verifiedQRPayload(payload.QRPayload, match)
	aiConfidence := extraction.Confidence
	if payload.OCRConfidence > 0 {
		// Extraction is only as trustworthy as the text the OCR engine
		// produced, so its confidence scales the AI signal.
		aiConfidence = clamp01(extraction.Confidence * payload.OCRConfidence)
	}
	breakdown := s.Scorer.Score(ScoreInput{
		NormalizationConfidence: normalization.Confidence,
		InstitutionScore:        match.Score,
		IssuerPresent:           normalization.Fields.Issuer != "",
		QRVerified:              qrVerified,
		LogoScore:               match.Score,
		TemplateScore:           templateScore,
		AIConfidence:            aiConfidence,
		Rules:                   rules,
	})
	outcome := s.Engine.Decide(breakdown.Score, GatedReasons(breakdown))

	if err := s.persistOutcome(ctx, cert, payload, normalization, match, aiConfidence, breakdown, outcome, qrVerified); err != nil {
		return VerificationReport{}, err
	}

	s.Audit.Emit(ctx, domain.AuditEvent{
		OrgID:      cert.OrgID,
		EventType:  domain.AuditCertificateDecided,
		ActorType:  domain.AuditActorSystem,
		TargetType: "certificate",
		TargetID:   cert.ID,
		Result:     domain.AuditResultSuccess,
		Payload: map[string]any{
			"score":   breakdown.Score,
			"status":  string(outcome.Status),
			"reasons": outcome.Reasons,
		},
	})
	if s.Notifier != nil {
		if err := s.Notifier.DecisionMade(ctx, *cert, outcome); err != nil {
			s.Logger.Warn("decision notification failed", "certificate_id", cert.ID, "err", err)
		}
	}

	if outcome.Status == domain.StatusVerified && s.AutoIssue && s.Credentials != nil {
		if _, err := s.Credentials.Issue(ctx, cert.ID, domain.Principal{Subject: "pipeline"}); err != nil && !errors.Is(err, domain.ErrAlreadyIssued) {
			s.Logger.Warn("auto-issuance failed", "certificate_id", cert.ID, "err", err)
		}
	}

	return VerificationReport{
		CertificateID: cert.ID,
		Fields:        normalization.Fields,
		Extraction:    extraction.Confidence,
		Normalization: normalization.Confidence,
		Institution:   match,
		Breakdown:     breakdown,
		Outcome:       outcome,
	}, nil
}

// ProcessNormalization re-runs field cleanup for a certificate outside the
// full pipeline, updating stored fields without touching its decision.
func (s *VerificationService) ProcessNormalization(ctx context.Context, payload domain.NormalizationPayload) (domain.NormalizationResult, error) {
	cert, err := s.Certificates.Get(ctx, payload.CertificateID)
	if err != nil {
		return domain.NormalizationResult{}, fmt.Errorf("load certificate %s: %w", payload.CertificateID, err)
	}
	result := s.Normalizer.Normalize(ctx, domain.CertificateFields{
		Title:       cert.Title,
		Institution: cert.Institution,
		DateIssued:  cert.DateIssued,
		Description: cert.Description,
	})
	applyFields(cert, result.Fields)
	if err := s.Certificates.Update(ctx, *cert); err != nil {
		return domain.NormalizationResult{}, fmt.Errorf("update certificate %s: %w", cert.ID, err)
	}
	return result, nil
}

func (s *VerificationService) persistOutcome(
	ctx context.Context,
	cert *domain.Certificate,
	payload domain.VerificationPayload,
	normalization domain.NormalizationResult,
	match domain.InstitutionMatch,
	aiConfidence float64,
	breakdown domain.ScoreBreakdown,
	outcome domain.DecisionOutcome,
	qrVerified bool,
) error {
	applyFields(cert, normalization.Fields)
	cert.Status = outcome.Status
	cert.ReviewState = outcome.ReviewState
	cert.AutoApproved = outcome.AutoApproved
	cert.Confidence = outcome.Score
	if cert.Terminal() {
		now := s.now().UTC()
		cert.DecidedAt = &now
	}
	if err := s.Certificates.Update(ctx, *cert); err != nil {
		return fmt.Errorf("update certificate %s: %w", cert.ID, err)
	}

	templateScore := 0.0
	if match.MatchedTemplate != "" {
		templateScore = match.Score
	}
	meta := domain.CertificateMetadata{
		CertificateID:      cert.ID,
		QRPayload:          payload.QRPayload,
		QRVerified:         qrVerified,
		LogoMatchScore:     match.Score,
		TemplateMatchScore: templateScore,
		AIConfidence:       aiConfidence,
		Details: map[string]any{
			"breakdown":                breakdown,
			"reasons":                  outcome.Reasons,
			"normalization_source":     string(normalization.Source),
			"normalization_confidence": normalization.Confidence,
			"matched_issuer_id":        match.IssuerID,
			"matched_template":         match.MatchedTemplate,
		},
	}
	if err := s.Certificates.UpsertMetadata(ctx, meta); err != nil {
		return fmt.Errorf("upsert metadata for %s: %w", cert.ID, err)
	}
	return nil
}

// applyFields fills certificate fields from the normalized set without
// clobbering values the student supplied at upload.
func applyFields(cert *domain.Certificate, fields domain.CertificateFields) {
	if cert.Title == "" && fields.Title != "" {
		cert.Title = fields.Title
	}
	if cert.Institution == "" && fields.Institution != "" {
		cert.Institution = fields.Institution
	}
	if fields.DateIssued != "" {
		cert.DateIssued = fields.DateIssued
	}
	if cert.Description == "" && fields.Description != "" {
		cert.Description = fields.Description
	}
}

// verifiedQRPayload accepts a scanned QR string only when it points at the
// matched issuer's published verification endpoint. An issuer without a
// QRVerifyURL gets no QR credit regardless of the payload.
func verifiedQRPayload(qr string, match domain.InstitutionMatch) bool {
	if match.IssuerID == "" || match.QRVerifyURL == "" {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(qr), match.QRVerifyURL)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
