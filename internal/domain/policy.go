package domain

// IssuancePolicyInput is the document evaluated by an organization's
// issuance-policy bundle before a credential is created. The gate runs at
// issuance only; decision-engine outcomes are never altered by it.
type IssuancePolicyInput struct {
	Certificate IssuanceCertificate `json:"certificate"`
	Decision    DecisionOutcome     `json:"decision"`
	Breakdown   ScoreBreakdown      `json:"breakdown"`
}

type IssuanceCertificate struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	OrgID        string  `json:"org_id"`
	Title        string  `json:"title,omitempty"`
	Institution  string  `json:"institution,omitempty"`
	DateIssued   string  `json:"date_issued,omitempty"`
	AutoApproved bool    `json:"auto_approved"`
	Confidence   float64 `json:"confidence"`
}

type PolicyDeny struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type PolicyResult struct {
	Allow bool         `json:"allow"`
	Deny  []PolicyDeny `json:"deny,omitempty"`
}

type PolicyEvaluation struct {
	BundleID   string       `json:"bundle_id,omitempty"`
	BundleHash string       `json:"bundle_hash"`
	Result     PolicyResult `json:"result"`
}
