package notify

import (
	"context"
	"log/slog"

	"campussync/internal/domain"
)

// LogNotifier stands in when no SMTP relay is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{Logger: log}
}

func (n *LogNotifier) DecisionMade(_ context.Context, cert domain.Certificate, outcome domain.DecisionOutcome) error {
	n.Logger.Info("decision notification",
		"certificate_id", cert.ID,
		"student_id", cert.StudentID,
		"status", string(outcome.Status),
		"score", outcome.Score)
	return nil
}

func (n *LogNotifier) CredentialRevoked(_ context.Context, cred domain.VerifiableCredential) error {
	n.Logger.Info("revocation notification",
		"credential_id", cred.ID,
		"certificate_id", cred.CertificateID,
		"reason", cred.RevokeReason)
	return nil
}

func (n *LogNotifier) ReviewDigest(_ context.Context, certs []domain.Certificate) error {
	n.Logger.Info("review digest", "queued", len(certs))
	return nil
}
