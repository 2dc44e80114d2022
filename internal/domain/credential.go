package domain

import "time"

type CredentialStatus string

const (
	CredentialActive  CredentialStatus = "active"
	CredentialRevoked CredentialStatus = "revoked"
)

// VerifiableCredential is immutable once issued except for its status.
// It references its certificate by identifier only.
type VerifiableCredential struct {
	ID            string
	CertificateID string
	StudentID     string
	IssuerDID     string
	Document      CredentialDocument
	Status        CredentialStatus
	IssuedAt      time.Time
	RevokedAt     *time.Time
	RevokeReason  string
}

func (c VerifiableCredential) Revoked() bool {
	return c.Status == CredentialRevoked
}

// CredentialDocument is the signed credential body persisted as JSON.
type CredentialDocument struct {
	Context      []string          `json:"@context"`
	ID           string            `json:"id"`
	Type         []string          `json:"type"`
	Issuer       string            `json:"issuer"`
	IssuanceDate string            `json:"issuanceDate"`
	Subject      CredentialSubject `json:"credentialSubject"`
	Proof        *Proof            `json:"proof,omitempty"`
}

// CredentialSubject binds the credential to the certificate's owning
// student. The ID field must carry the student identifier and nothing else.
type CredentialSubject struct {
	ID            string `json:"id"`
	CertificateID string `json:"certificateId"`
	Title         string `json:"title,omitempty"`
	Institution   string `json:"institution,omitempty"`
	DateIssued    string `json:"dateIssued,omitempty"`
	Description   string `json:"description,omitempty"`
}

type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofValue         string `json:"proofValue"`
}

// CredentialStatusEntry is one row of the append-only status registry kept
// per credential for audit purposes.
type CredentialStatusEntry struct {
	ID           int64
	CredentialID string
	Status       CredentialStatus
	Reason       string
	CreatedAt    time.Time
}
