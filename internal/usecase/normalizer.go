package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"campussync/internal/domain"
)

// FieldNormalizer cleans extracted fields: dates coerced to ISO-8601 where
// a recognizable pattern exists, names and titles trimmed and
// case-normalized. It may delegate to an external normalization service;
// any failure there falls back to the rule-based result and is never
// propagated to the caller.
type FieldNormalizer struct {
	Client NormalizationClient
	Logger *slog.Logger
}

func NewFieldNormalizer(client NormalizationClient, log *slog.Logger) *FieldNormalizer {
	if log == nil {
		log = slog.Default()
	}
	return &FieldNormalizer{Client: client, Logger: log}
}

// Normalize never fails and always returns a confidence in [0,1].
func (n *FieldNormalizer) Normalize(ctx context.Context, fields domain.CertificateFields) domain.NormalizationResult {
	result := ruleNormalize(fields)
	if n == nil || n.Client == nil {
		return result
	}

	serviceFields, coerced, err := n.Client.Normalize(ctx, fields)
	if err != nil {
		n.Logger.Warn("normalization service failed, using rule-based result", "err", err)
		return result
	}

	merged := mergeFields(result.Fields, serviceFields)
	// The service output is not trusted blindly: its date must still parse.
	if merged.DateIssued != "" {
		if iso, ok := coerceDate(merged.DateIssued); ok {
			merged.DateIssued = iso
		} else {
			merged.DateIssued = result.Fields.DateIssued
		}
	}
	return domain.NormalizationResult{
		Fields:     merged,
		Confidence: normalizationConfidence(fields, merged),
		Coerced:    coerced,
		Source:     domain.NormalizationService,
	}
}

func ruleNormalize(fields domain.CertificateFields) domain.NormalizationResult {
	out := domain.CertificateFields{
		Title:       cleanText(fields.Title),
		Institution: cleanText(fields.Institution),
		Recipient:   cleanText(fields.Recipient),
		Issuer:      cleanText(fields.Issuer),
		Description: collapseSpaces(strings.TrimSpace(fields.Description)),
		DateIssued:  strings.TrimSpace(fields.DateIssued),
	}
	var coerced []string
	if out.DateIssued != "" {
		if iso, ok := coerceDate(out.DateIssued); ok {
			out.DateIssued = iso
			coerced = append(coerced, "date_issued")
		}
	}
	return domain.NormalizationResult{
		Fields:     out,
		Confidence: normalizationConfidence(fields, out),
		Coerced:    coerced,
		Source:     domain.NormalizationRules,
	}
}

// normalizationConfidence reflects how many populated fields ended up in a
// normalized form versus left as-is.
func normalizationConfidence(in, out domain.CertificateFields) float64 {
	type pair struct {
		raw  string
		norm string
		date bool
	}
	pairs := []pair{
		{in.Title, out.Title, false},
		{in.Institution, out.Institution, false},
		{in.Recipient, out.Recipient, false},
		{in.Issuer, out.Issuer, false},
		{in.DateIssued, out.DateIssued, true},
	}
	total := 0
	ok := 0
	for _, p := range pairs {
		if strings.TrimSpace(p.raw) == "" {
			continue
		}
		total++
		if p.date {
			if isISODate(p.norm) {
				ok++
			}
			continue
		}
		if p.norm != "" {
			ok++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ok) / float64(total)
}

var (
	ordinalDayOfRe = regexp.MustCompile(`(?i)^(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+day\s+of\s+([A-Za-z]+)[,.]?\s*(\d{4})$`)
	textualDMYRe   = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)[,.]?\s*(\d{4})$`)
	textualMDYRe   = regexp.MustCompile(`(?i)^([A-Za-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?[,.]?\s*(\d{4})$`)
	numericDMYRe   = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// coerceDate maps a recognizable date phrase to ISO-8601. It reports false
// for anything it cannot parse so the raw phrase survives untouched.
func coerceDate(raw string) (string, bool) {
	s := collapseSpaces(strings.Trim(strings.TrimSpace(raw), ",."))
	if isoDateRe.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return s, true
		}
		return "", false
	}
	if m := ordinalDayOfRe.FindStringSubmatch(s); m != nil {
		return buildISO(m[3], m[2], m[1])
	}
	if m := textualDMYRe.FindStringSubmatch(s); m != nil {
		return buildISO(m[3], m[2], m[1])
	}
	if m := textualMDYRe.FindStringSubmatch(s); m != nil {
		return buildISO(m[3], m[1], m[2])
	}
	if m := numericDMYRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month > 12 && day <= 12 {
			day, month = month, day
		}
		return validateISO(atoiSafe(m[3]), time.Month(month), day)
	}
	return "", false
}

func buildISO(year, monthName, day string) (string, bool) {
	month, ok := monthIndex[strings.ToLower(monthName)[:min(3, len(monthName))]]
	if !ok {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	return validateISO(atoiSafe(year), month, d)
}

func validateISO(year int, month time.Month, day int) (string, bool) {
	if year < 1900 || year > 2200 || month < time.January || month > time.December || day < 1 || day > 31 {
		return "", false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30), which we reject.
	if date.Day() != day || date.Month() != month {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day), true
}

func isISODate(s string) bool {
	return isoDateRe.MatchString(s)
}

func atoiSafe(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func cleanText(s string) string {
	s = collapseSpaces(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if s == strings.ToUpper(s) && len(s) > 3 {
		return titleCase(strings.ToLower(s))
	}
	return s
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) == 0 {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var spacesRe = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return spacesRe.ReplaceAllString(s, " ")
}

func mergeFields(base, override domain.CertificateFields) domain.CertificateFields {
	out := base
	if override.Title != "" {
		out.Title = cleanText(override.Title)
	}
	if override.Institution != "" {
		out.Institution = cleanText(override.Institution)
	}
	if override.Recipient != "" {
		out.Recipient = cleanText(override.Recipient)
	}
	if override.Issuer != "" {
		out.Issuer = cleanText(override.Issuer)
	}
	if override.Description != "" {
		out.Description = collapseSpaces(strings.TrimSpace(override.Description))
	}
	if override.DateIssued != "" {
		out.DateIssued = strings.TrimSpace(override.DateIssued)
	}
	return out
}
