package usecase

import (
	"regexp"
	"strings"

	"campussync/internal/domain"
)

// FieldExtractor turns raw OCR text plus a declared document type into a
// structured field set. It is heuristic, has no side effects, and never
// fails: unmatched fields are left empty for downstream handling.
type FieldExtractor struct{}

var (
	// Case-insensitivity covers the trigger phrase and honorific only; the
	// name capture stays case-sensitive and single-line so it stops at the
	// first lowercase word ("has successfully ...") or line break.
	recipientRe = regexp.MustCompile(`(?i:this is to certify that|is to certify that|certify that|awarded to|presented to|conferred (?:up)?on)[:\s]+(?:(?i:mr|ms|mrs)\.?[ \t]+)?([A-Z][a-zA-Z.'-]*(?:[ \t]+[A-Z][a-zA-Z.'-]*){0,4})`)

	titleRe = regexp.MustCompile(`(?i)\b(certificate of (?:participation|completion|achievement|excellence|merit|appreciation)|internship certificate|course completion certificate|diploma in [a-z &]+|degree of [a-z &]+)\b`)

	institutionLineRe = regexp.MustCompile(`(?i)\b(university|institute|institution|college|academy|polytechnic)\b`)

	issuedByRe  = regexp.MustCompile(`(?i)(?:issued by|signed by|authori[sz]ed by|on behalf of)[:\s]+([A-Z][^,\n.]{2,60})`)
	signatoryRe = regexp.MustCompile(`(?i)\b(director|dean|head of department|principal|registrar|coordinator|supervisor)\b`)

	dayOfDateRe   = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+day\s+of\s+[A-Za-z]+,?\s+\d{4}\b`)
	textualDateRe = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]+,?\s+\d{4}\b`)
	monthFirstRe  = regexp.MustCompile(`(?i)\b[A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`)
	numericDateRe = regexp.MustCompile(`\b\d{1,4}[/-]\d{1,2}[/-]\d{1,4}\b`)

	completionRe = regexp.MustCompile(`(?i)(?:has\s+)?successfully (?:completed|undergone)\s+([^.\n]{3,120})`)
)

// Extract never returns an error; absence of a field is a valid outcome.
func (e *FieldExtractor) Extract(rawText, documentType string) domain.ExtractionResult {
	fields := domain.CertificateFields{}
	text := strings.TrimSpace(rawText)
	if text == "" {
		return domain.ExtractionResult{Fields: fields}
	}
	lines := splitLines(text)

	if m := titleRe.FindString(text); m != "" {
		fields.Title = strings.TrimSpace(m)
	} else if documentType == "certificate" {
		// A bare heading line like "CERTIFICATE" is a usable title only
		// when it does not name the recipient.
		for _, line := range lines {
			upper := strings.ToUpper(line)
			if strings.Contains(upper, "CERTIFICATE") && !recipientRe.MatchString(line) && len(line) <= 60 {
				fields.Title = strings.TrimSpace(line)
				break
			}
		}
	}

	if m := recipientRe.FindStringSubmatch(text); m != nil {
		fields.Recipient = strings.TrimSpace(m[1])
	}

	for _, line := range lines {
		if institutionLineRe.MatchString(line) && !recipientRe.MatchString(line) {
			fields.Institution = strings.Trim(strings.TrimSpace(line), ",.")
			break
		}
	}

	fields.DateIssued = firstDatePhrase(text)

	if m := issuedByRe.FindStringSubmatch(text); m != nil {
		fields.Issuer = strings.TrimSpace(m[1])
	} else {
		for _, line := range lines {
			if signatoryRe.MatchString(line) && len(line) <= 80 {
				fields.Issuer = strings.Trim(strings.TrimSpace(line), ",.")
				break
			}
		}
	}

	if m := completionRe.FindStringSubmatch(text); m != nil {
		fields.Description = strings.TrimSpace(m[1])
	}

	return domain.ExtractionResult{
		Fields:     fields,
		Confidence: extractionConfidence(fields),
	}
}

func firstDatePhrase(text string) string {
	for _, re := range []*regexp.Regexp{dayOfDateRe, textualDateRe, monthFirstRe, numericDateRe} {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func extractionConfidence(fields domain.CertificateFields) float64 {
	score := 0.0
	if fields.Title != "" {
		score += 0.20
	}
	if fields.Institution != "" {
		score += 0.25
	}
	if fields.Recipient != "" {
		score += 0.20
	}
	if fields.DateIssued != "" {
		score += 0.20
	}
	if fields.Issuer != "" {
		score += 0.15
	}
	return score
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
