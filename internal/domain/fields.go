package domain

// CertificateFields is the structured field set extracted from raw OCR
// text. Unmatched fields stay empty rather than guessed.
type CertificateFields struct {
	Title       string `json:"title,omitempty"`
	Institution string `json:"institution,omitempty"`
	Recipient   string `json:"recipient,omitempty"`
	DateIssued  string `json:"date_issued,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Description string `json:"description,omitempty"`
}

func (f CertificateFields) Empty() bool {
	return f == CertificateFields{}
}

type ExtractionResult struct {
	Fields     CertificateFields `json:"fields"`
	Confidence float64           `json:"confidence"`
}

type NormalizationSource string

const (
	NormalizationRules   NormalizationSource = "rules"
	NormalizationService NormalizationSource = "service"
)

type NormalizationResult struct {
	Fields     CertificateFields   `json:"fields"`
	Confidence float64             `json:"confidence"`
	Coerced    []string            `json:"coerced,omitempty"`
	Source     NormalizationSource `json:"source"`
}

// InstitutionMatch scores a claimed institution against the trusted-issuer
// registry. Score stays above zero even when nothing matches.
type InstitutionMatch struct {
	Score           float64 `json:"score"`
	Confidence      float64 `json:"confidence"`
	IssuerID        string  `json:"issuer_id,omitempty"`
	IssuerName      string  `json:"issuer_name,omitempty"`
	QRVerifyURL     string  `json:"qr_verify_url,omitempty"`
	MatchedTemplate string  `json:"matched_template,omitempty"`
	LogoSHA256      string  `json:"logo_sha256,omitempty"`
}

type ScoreComponent struct {
	Name     string  `json:"name"`
	Signal   float64 `json:"signal"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Gated    bool    `json:"gated,omitempty"`
}

// ScoreBreakdown is the per-rule decomposition surfaced to reviewers.
type ScoreBreakdown struct {
	Score      float64          `json:"score"`
	Components []ScoreComponent `json:"components"`
}

type DecisionOutcome struct {
	Status       VerificationStatus `json:"status"`
	ReviewState  ReviewState        `json:"review_state"`
	AutoApproved bool               `json:"auto_approved"`
	Score        float64            `json:"score"`
	Reasons      []string           `json:"reasons"`
}
