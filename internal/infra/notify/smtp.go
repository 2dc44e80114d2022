package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"campussync/internal/domain"
)

// SMTPNotifier mails students on pipeline decisions and revocations, and
// reviewers the periodic queue digest. Failures are reported to the caller;
// the services treat notification as best-effort.
type SMTPNotifier struct {
	Addr     string
	From     string
	Password string
	DigestTo []string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(addr, from, password string, digestTo []string) *SMTPNotifier {
	return &SMTPNotifier{
		Addr:     addr,
		From:     from,
		Password: password,
		DigestTo: digestTo,
		send:     smtp.SendMail,
	}
}

func (n *SMTPNotifier) DecisionMade(_ context.Context, cert domain.Certificate, outcome domain.DecisionOutcome) error {
	subject := fmt.Sprintf("Certificate %s: %s", cert.ID, outcome.Status)
	var body strings.Builder
	fmt.Fprintf(&body, "<p>Your certificate <strong>%s</strong> has been processed.</p>", cert.Title)
	fmt.Fprintf(&body, "<p>Status: <strong>%s</strong> (score %.2f)</p>", outcome.Status, outcome.Score)
	if outcome.ReviewState == domain.ReviewStateManual {
		body.WriteString("<p>It is queued for manual review; you will be notified of the final decision.</p>")
	}
	return n.mail([]string{studentAddress(cert.StudentID)}, subject, body.String())
}

func (n *SMTPNotifier) CredentialRevoked(_ context.Context, cred domain.VerifiableCredential) error {
	subject := fmt.Sprintf("Credential %s revoked", cred.ID)
	body := fmt.Sprintf(
		"<p>The credential for certificate <strong>%s</strong> has been revoked.</p><p>Reason: %s</p>",
		cred.CertificateID, cred.RevokeReason)
	return n.mail([]string{studentAddress(cred.StudentID)}, subject, body)
}

func (n *SMTPNotifier) ReviewDigest(_ context.Context, certs []domain.Certificate) error {
	if len(n.DigestTo) == 0 {
		return nil
	}
	subject := fmt.Sprintf("%d certificates awaiting review", len(certs))
	var body strings.Builder
	body.WriteString("<p>The following certificates are waiting for manual review:</p><ul>")
	for _, cert := range certs {
		fmt.Fprintf(&body, "<li>%s &mdash; %s (score %.2f)</li>", cert.ID, cert.Title, cert.Confidence)
	}
	body.WriteString("</ul>")
	return n.mail(n.DigestTo, subject, body.String())
}

func (n *SMTPNotifier) mail(to []string, subject, htmlBody string) error {
	if n.Addr == "" || n.From == "" || len(to) == 0 {
		return nil
	}
	var msg strings.Builder
	msg.WriteString("MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n")
	fmt.Fprintf(&msg, "From: CampusSync <%s>\r\n", n.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ","))
	fmt.Fprintf(&msg, "Subject: %s\r\n\r\n", subject)
	msg.WriteString(htmlBody)

	host := n.Addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	auth := smtp.PlainAuth("", n.From, n.Password, host)
	return n.send(n.Addr, auth, n.From, to, []byte(msg.String()))
}

// studentAddress maps a student identifier to its mailbox. Identifiers are
// already email addresses in this deployment; anything else is passed
// through for the relay to resolve.
func studentAddress(studentID string) string {
	return studentID
}
