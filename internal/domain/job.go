package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type JobType string

const (
	JobOCR           JobType = "ocr"
	JobVerification  JobType = "verification"
	JobNormalization JobType = "normalization"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is a queued unit of work. Transitions are owned exclusively by the
// worker; completed and failed are terminal, with the payload preserved for
// resubmission and inspection. A job stuck in processing has no reclaim
// mechanism; StartedAt is recorded so operators can find such jobs.
type Job struct {
	ID         string
	Type       JobType
	Payload    json.RawMessage
	Status     JobStatus
	Result     json.RawMessage
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// JobPayload is the tagged union over job payloads. Each job type has its
// own payload shape; the worker dispatches on the tag.
type JobPayload interface {
	JobType() JobType
}

type OCRPayload struct {
	CertificateID string `json:"certificate_id"`
	FileRef       string `json:"file_ref"`
	DocumentType  string `json:"document_type,omitempty"`
}

func (OCRPayload) JobType() JobType { return JobOCR }

type VerificationPayload struct {
	CertificateID string  `json:"certificate_id"`
	RawText       string  `json:"raw_text"`
	OCRConfidence float64 `json:"ocr_confidence"`
	DocumentType  string  `json:"document_type,omitempty"`
	QRPayload     string  `json:"qr_payload,omitempty"`
	LogoRef       string  `json:"logo_ref,omitempty"`
}

func (VerificationPayload) JobType() JobType { return JobVerification }

type NormalizationPayload struct {
	CertificateID string `json:"certificate_id"`
}

func (NormalizationPayload) JobType() JobType { return JobNormalization }

func EncodePayload(p JobPayload) (json.RawMessage, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.JobType(), err)
	}
	return raw, nil
}

// DecodePayload parses raw into the payload type for t. Unknown job types
// and malformed payloads are errors so that a bad job fails loudly instead
// of dispatching with zero values.
func DecodePayload(t JobType, raw json.RawMessage) (JobPayload, error) {
	var (
		p   JobPayload
		err error
	)
	switch t {
	case JobOCR:
		var v OCRPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case JobVerification:
		var v VerificationPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case JobNormalization:
		var v NormalizationPayload
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}
