package usecase

import (
	"context"
	"errors"
	"testing"

	"campussync/internal/domain"
)

func TestNormalizeCoercesDates(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"19th day of June, 2023", "2023-06-19"},
		{"the 1st day of January 2020", "2020-01-01"},
		{"15 March 2022", "2022-03-15"},
		{"March 15, 2022", "2022-03-15"},
		{"15/03/2022", "2022-03-15"},
		{"03/15/2022", "2022-03-15"},
		{"2022-03-15", "2022-03-15"},
	}
	n := NewFieldNormalizer(nil, nil)
	for _, tc := range cases {
		result := n.Normalize(context.Background(), domain.CertificateFields{DateIssued: tc.raw})
		if result.Fields.DateIssued != tc.want {
			t.Errorf("Normalize date %q = %q, want %q", tc.raw, result.Fields.DateIssued, tc.want)
		}
	}
}

func TestNormalizeKeepsUnparseableDate(t *testing.T) {
	n := NewFieldNormalizer(nil, nil)
	result := n.Normalize(context.Background(), domain.CertificateFields{DateIssued: "sometime last spring"})
	if result.Fields.DateIssued != "sometime last spring" {
		t.Fatalf("unparseable date was altered: %q", result.Fields.DateIssued)
	}
	if len(result.Coerced) != 0 {
		t.Fatalf("coerced = %v, want none", result.Coerced)
	}
}

func TestNormalizeRejectsImpossibleDate(t *testing.T) {
	n := NewFieldNormalizer(nil, nil)
	result := n.Normalize(context.Background(), domain.CertificateFields{DateIssued: "30 February 2022"})
	if result.Fields.DateIssued != "30 February 2022" {
		t.Fatalf("impossible date was coerced to %q", result.Fields.DateIssued)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := NewFieldNormalizer(nil, nil)
	result := n.Normalize(context.Background(), domain.CertificateFields{})
	if !result.Fields.Empty() {
		t.Fatalf("expected empty fields, got %+v", result.Fields)
	}
	if result.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0 for empty input", result.Confidence)
	}
}

func TestNormalizeTitleCasesShoutingText(t *testing.T) {
	n := NewFieldNormalizer(nil, nil)
	result := n.Normalize(context.Background(), domain.CertificateFields{
		Institution: "INDIAN INSTITUTE OF TECHNOLOGY BOMBAY",
	})
	if result.Fields.Institution != "Indian Institute Of Technology Bombay" {
		t.Fatalf("institution = %q", result.Fields.Institution)
	}
}

func TestNormalizeFallsBackWhenServiceFails(t *testing.T) {
	client := &stubNormalizer{err: errors.New("service down")}
	n := NewFieldNormalizer(client, nil)
	result := n.Normalize(context.Background(), domain.CertificateFields{
		Title:      "Certificate of Completion",
		DateIssued: "15 March 2022",
	})
	if client.calls != 1 {
		t.Fatalf("client calls = %d", client.calls)
	}
	if result.Source != domain.NormalizationRules {
		t.Fatalf("source = %q, want rules fallback", result.Source)
	}
	if result.Fields.DateIssued != "2022-03-15" {
		t.Fatalf("date = %q", result.Fields.DateIssued)
	}
}

func TestNormalizeServiceDateIsRevalidated(t *testing.T) {
	client := &stubNormalizer{
		fields:  domain.CertificateFields{DateIssued: "not a date at all"},
		coerced: []string{"date_issued"},
	}
	n := NewFieldNormalizer(client, nil)
	result := n.Normalize(context.Background(), domain.CertificateFields{DateIssued: "15 March 2022"})
	if result.Source != domain.NormalizationService {
		t.Fatalf("source = %q", result.Source)
	}
	if result.Fields.DateIssued != "2022-03-15" {
		t.Fatalf("date = %q, want the rule-coerced value when the service date does not parse", result.Fields.DateIssued)
	}
}

func TestNormalizeConfidenceRange(t *testing.T) {
	n := NewFieldNormalizer(nil, nil)
	result := n.Normalize(context.Background(), domain.CertificateFields{
		Title:       "Certificate of Achievement",
		Institution: "MIT",
		DateIssued:  "garbage",
	})
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Fatalf("confidence = %v, out of range", result.Confidence)
	}
	if result.Confidence >= 1 {
		t.Fatalf("confidence = %v, want below 1 with an uncoerced date", result.Confidence)
	}
}
