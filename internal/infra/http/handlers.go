package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campussync/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createCertificateRequest struct {
	StudentID   string `json:"student_id"`
	OrgID       string `json:"org_id"`
	Title       string `json:"title,omitempty"`
	Institution string `json:"institution,omitempty"`
	DateIssued  string `json:"date_issued,omitempty"`
	Description string `json:"description,omitempty"`
	FileRef     string `json:"file_ref"`
}

type certificateResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	OrgID        string  `json:"org_id"`
	Title        string  `json:"title,omitempty"`
	Institution  string  `json:"institution,omitempty"`
	DateIssued   string  `json:"date_issued,omitempty"`
	Description  string  `json:"description,omitempty"`
	FileRef      string  `json:"file_ref,omitempty"`
	Status       string  `json:"status"`
	ReviewState  string  `json:"review_state"`
	AutoApproved bool    `json:"auto_approved"`
	Confidence   float64 `json:"confidence"`
	ReviewedBy   string  `json:"reviewed_by,omitempty"`
	ReviewReason string  `json:"review_reason,omitempty"`
	DecidedAt    string  `json:"decided_at,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

type createCertificateResponse struct {
	Certificate certificateResponse `json:"certificate"`
	JobID       string              `json:"job_id,omitempty"`
}

type certificateReportResponse struct {
	Certificate        certificateResponse `json:"certificate"`
	QRVerified         bool                `json:"qr_verified"`
	LogoMatchScore     float64             `json:"logo_match_score"`
	TemplateMatchScore float64             `json:"template_match_score"`
	AIConfidence       float64             `json:"ai_confidence"`
	Details            map[string]any      `json:"details,omitempty"`
}

type submitJobRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type jobResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	CreatedAt  string          `json:"created_at,omitempty"`
	StartedAt  string          `json:"started_at,omitempty"`
	FinishedAt string          `json:"finished_at,omitempty"`
}

type reviewDecideRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

type reviewRevertRequest struct {
	Reason string `json:"reason"`
}

type issueCredentialRequest struct {
	CertificateID string `json:"certificate_id"`
}

type revokeCredentialRequest struct {
	Reason string `json:"reason"`
}

type credentialResponse struct {
	ID            string                    `json:"id"`
	CertificateID string                    `json:"certificate_id"`
	StudentID     string                    `json:"student_id"`
	IssuerDID     string                    `json:"issuer_did"`
	Status        string                    `json:"status"`
	IssuedAt      string                    `json:"issued_at"`
	RevokedAt     string                    `json:"revoked_at,omitempty"`
	RevokeReason  string                    `json:"revoke_reason,omitempty"`
	Document      domain.CredentialDocument `json:"document"`
}

type credentialStatusResponse struct {
	Credential credentialResponse    `json:"credential"`
	History    []statusEntryResponse `json:"history"`
}

type statusEntryResponse struct {
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ruleRequest struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Weight    float64        `json:"weight"`
	Threshold float64        `json:"threshold"`
	Config    map[string]any `json:"config,omitempty"`
	Active    bool           `json:"active"`
}

type ruleActivateRequest struct {
	Active bool `json:"active"`
}

type issuerRequest struct {
	Name                string   `json:"name"`
	Domain              string   `json:"domain,omitempty"`
	TemplatePatterns    []string `json:"template_patterns,omitempty"`
	ConfidenceThreshold float64  `json:"confidence_threshold,omitempty"`
	QRVerifyURL         string   `json:"qr_verify_url,omitempty"`
	Active              bool     `json:"active"`
}

func (s *Server) handleCreateCertificate(c *gin.Context) {
	if s.certificates == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	principal := principalFromHeaders(c)
	if !s.enforceRateLimit(c, "certificates:create", principal) {
		return
	}
	var req createCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if strings.TrimSpace(req.StudentID) == "" || strings.TrimSpace(req.OrgID) == "" {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "student_id and org_id are required")
		return
	}
	cert := domain.Certificate{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		OrgID:       req.OrgID,
		Title:       req.Title,
		Institution: req.Institution,
		DateIssued:  req.DateIssued,
		Description: req.Description,
		FileRef:     req.FileRef,
		Status:      domain.StatusPending,
		ReviewState: domain.ReviewStateNone,
	}
	if err := s.certificates.Create(c.Request.Context(), cert); err != nil {
		writeError(c, err)
		return
	}
	out := createCertificateResponse{Certificate: buildCertificateResponse(cert)}
	if req.FileRef != "" && s.jobs != nil {
		job, err := s.jobs.Submit(c.Request.Context(), domain.OCRPayload{
			CertificateID: cert.ID,
			FileRef:       req.FileRef,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		out.JobID = job.ID
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) handleGetCertificate(c *gin.Context) {
	if s.certificates == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	cert, err := s.certificates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildCertificateResponse(*cert))
}

func (s *Server) handleCertificateReport(c *gin.Context) {
	if s.certificates == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	cert, err := s.certificates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := certificateReportResponse{Certificate: buildCertificateResponse(*cert)}
	meta, err := s.certificates.GetMetadata(c.Request.Context(), cert.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if meta != nil {
		out.QRVerified = meta.QRVerified
		out.LogoMatchScore = meta.LogoMatchScore
		out.TemplateMatchScore = meta.TemplateMatchScore
		out.AIConfidence = meta.AIConfidence
		out.Details = meta.Details
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSubmitJob(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	principal := principalFromHeaders(c)
	if !s.enforceRateLimit(c, "jobs:submit", principal) {
		return
	}
	var req submitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	payload, err := domain.DecodePayload(domain.JobType(req.Type), req.Payload)
	if err != nil {
		writeError(c, err)
		return
	}
	job, err := s.jobs.Submit(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, buildJobResponse(job))
}

func (s *Server) handleGetJob(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	job, err := s.jobs.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildJobResponse(job))
}

func (s *Server) handleListJobs(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	status := domain.JobStatus(c.Query("status"))
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "invalid limit")
			return
		}
		limit = parsed
	}
	jobs, err := s.jobs.List(c.Request.Context(), status, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, buildJobResponse(job))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleReviewQueue(c *gin.Context) {
	if s.review == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	principal := principalFromHeaders(c)
	orgID := c.Query("org_id")
	if orgID == "" {
		orgID = principal.OrgID
	}
	entries, err := s.review.Queue(c.Request.Context(), orgID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleReviewDecide(c *gin.Context) {
	if s.review == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	principal := principalFromHeaders(c)
	if !s.enforceRateLimit(c, "review:decide", principal) {
		return
	}
	var req reviewDecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	cert, err := s.review.Decide(c.Request.Context(), c.Param("id"), req.Approve, req.Reason, principal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildCertificateResponse(cert))
}

func (s *Server) handleReviewRevert(c *gin.Context) {
	if s.review == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	principal := principalFromHeaders(c)
	if !s.enforceRateLimit(c, "review:revert", principal) {
		return
	}
	var req reviewRevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	cert, err := s.review.Revert(c.Request.Context(), c.Param("id"), req.Reason, principal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildCertificateResponse(cert))
}

func (s *Server) handleIssueCredential(c *gin.Context) {
	if s.credentials == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	principal := principalFromHeaders(c)
	if !s.enforceRateLimit(c, "credentials:issue", principal) {
		return
	}
	var req issueCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if strings.TrimSpace(req.CertificateID) == "" {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "certificate_id is required")
		return
	}
	cred, err := s.credentials.Issue(c.Request.Context(), req.CertificateID, principal)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyIssued) {
			// The stored credential rides along so clients can recover it.
			c.JSON(http.StatusConflict, gin.H{
				"code":       "ALREADY_ISSUED",
				"message":    err.Error(),
				"credential": buildCredentialResponse(cred),
			})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildCredentialResponse(cred))
}

func (s *Server) handleCredentialStatus(c *gin.Context) {
	if s.credentials == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	cred, entries, err := s.credentials.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := credentialStatusResponse{
		Credential: buildCredentialResponse(cred),
		History:    make([]statusEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		out.History = append(out.History, statusEntryResponse{
			Status:    string(entry.Status),
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleRevokeCredential(c *gin.Context) {
	if s.credentials == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	principal := principalFromHeaders(c)
	if !s.enforceRateLimit(c, "credentials:revoke", principal) {
		return
	}
	var req revokeCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	cred, err := s.credentials.Revoke(c.Request.Context(), c.Param("id"), req.Reason, principal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildCredentialResponse(cred))
}

func (s *Server) handleAdminListRules(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.rules == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	rules, err := s.rules.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (s *Server) handleAdminCreateRule(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.rules == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	rule, ok := ruleFromRequest(c, req)
	if !ok {
		return
	}
	rule.ID = uuid.NewString()
	if err := s.rules.Create(c.Request.Context(), rule); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (s *Server) handleAdminUpdateRule(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.rules == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	rule, ok := ruleFromRequest(c, req)
	if !ok {
		return
	}
	rule.ID = c.Param("id")
	if err := s.rules.Update(c.Request.Context(), rule); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) handleAdminSetRuleActive(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.rules == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req ruleActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if err := s.rules.SetActive(c.Request.Context(), c.Param("id"), req.Active); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAdminListIssuers(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.issuers == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	activeOnly := c.Query("active") == "true"
	issuers, err := s.issuers.List(c.Request.Context(), activeOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, issuers)
}

func (s *Server) handleAdminCreateIssuer(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.issuers == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req issuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "name is required")
		return
	}
	issuer := issuerFromRequest(req)
	issuer.ID = uuid.NewString()
	if err := s.issuers.Create(c.Request.Context(), issuer); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issuer)
}

func (s *Server) handleAdminGetIssuer(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.issuers == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	issuer, err := s.issuers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, issuer)
}

func (s *Server) handleAdminUpdateIssuer(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.issuers == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req issuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "name is required")
		return
	}
	issuer := issuerFromRequest(req)
	issuer.ID = c.Param("id")
	if err := s.issuers.Update(c.Request.Context(), issuer); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, issuer)
}

func (s *Server) handleAdminResubmitJob(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.jobs == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	job, err := s.jobs.Resubmit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, buildJobResponse(job))
}

func (s *Server) handleAdminListAudit(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.audit == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	events, err := s.audit.List(c.Request.Context(), c.Query("org_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func ruleFromRequest(c *gin.Context, req ruleRequest) (domain.VerificationRule, bool) {
	if strings.TrimSpace(req.Name) == "" {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "name is required")
		return domain.VerificationRule{}, false
	}
	ruleType := domain.RuleType(req.Type)
	if !ruleType.Valid() {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "unknown rule type")
		return domain.VerificationRule{}, false
	}
	if req.Weight < 0 || req.Threshold < 0 || req.Threshold > 1 {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "weight must be >= 0 and threshold in [0,1]")
		return domain.VerificationRule{}, false
	}
	return domain.VerificationRule{
		Name:      req.Name,
		Type:      ruleType,
		Weight:    req.Weight,
		Threshold: req.Threshold,
		Config:    req.Config,
		Active:    req.Active,
	}, true
}

func issuerFromRequest(req issuerRequest) domain.TrustedIssuer {
	return domain.TrustedIssuer{
		Name:                req.Name,
		Domain:              req.Domain,
		TemplatePatterns:    req.TemplatePatterns,
		ConfidenceThreshold: req.ConfidenceThreshold,
		QRVerifyURL:         req.QRVerifyURL,
		Active:              req.Active,
	}
}

func buildCertificateResponse(cert domain.Certificate) certificateResponse {
	out := certificateResponse{
		ID:           cert.ID,
		StudentID:    cert.StudentID,
		OrgID:        cert.OrgID,
		Title:        cert.Title,
		Institution:  cert.Institution,
		DateIssued:   cert.DateIssued,
		Description:  cert.Description,
		FileRef:      cert.FileRef,
		Status:       string(cert.Status),
		ReviewState:  string(cert.ReviewState),
		AutoApproved: cert.AutoApproved,
		Confidence:   cert.Confidence,
		ReviewedBy:   cert.ReviewedBy,
		ReviewReason: cert.ReviewReason,
	}
	if cert.DecidedAt != nil {
		out.DecidedAt = cert.DecidedAt.UTC().Format(time.RFC3339)
	}
	if !cert.CreatedAt.IsZero() {
		out.CreatedAt = cert.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func buildJobResponse(job domain.Job) jobResponse {
	out := jobResponse{
		ID:      job.ID,
		Type:    string(job.Type),
		Status:  string(job.Status),
		Payload: job.Payload,
		Result:  job.Result,
	}
	if !job.CreatedAt.IsZero() {
		out.CreatedAt = job.CreatedAt.UTC().Format(time.RFC3339)
	}
	if job.StartedAt != nil {
		out.StartedAt = job.StartedAt.UTC().Format(time.RFC3339)
	}
	if job.FinishedAt != nil {
		out.FinishedAt = job.FinishedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func buildCredentialResponse(cred domain.VerifiableCredential) credentialResponse {
	out := credentialResponse{
		ID:            cred.ID,
		CertificateID: cred.CertificateID,
		StudentID:     cred.StudentID,
		IssuerDID:     cred.IssuerDID,
		Status:        string(cred.Status),
		RevokeReason:  cred.RevokeReason,
		Document:      cred.Document,
	}
	if !cred.IssuedAt.IsZero() {
		out.IssuedAt = cred.IssuedAt.UTC().Format(time.RFC3339)
	}
	if cred.RevokedAt != nil {
		out.RevokedAt = cred.RevokedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnknownJobType):
		status, code = http.StatusBadRequest, "UNKNOWN_JOB_TYPE"
	case errors.Is(err, domain.ErrMissingSubject):
		status, code = http.StatusBadRequest, "MISSING_SUBJECT"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrAlreadyIssued):
		status, code = http.StatusConflict, "ALREADY_ISSUED"
	case errors.Is(err, domain.ErrCertificateNotPending):
		status, code = http.StatusConflict, "CERTIFICATE_NOT_PENDING"
	case errors.Is(err, domain.ErrCertificateNotTerminal):
		status, code = http.StatusConflict, "CERTIFICATE_NOT_TERMINAL"
	case errors.Is(err, domain.ErrCertificateNotVerified):
		status, code = http.StatusConflict, "CERTIFICATE_NOT_VERIFIED"
	case errors.Is(err, domain.ErrJobNotFailed):
		status, code = http.StatusConflict, "JOB_NOT_FAILED"
	case errors.Is(err, domain.ErrIssuanceDenied):
		status, code = http.StatusForbidden, "ISSUANCE_DENIED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
