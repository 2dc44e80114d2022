package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"campussync/internal/domain"
)

// Baseline scores for the match tiers. True visual similarity on the logo
// is a registered design allowance; the logo is only fingerprinted here.
const (
	matchScoreExact     = 1.0
	matchScoreTemplate  = 0.85
	matchScoreSubstring = 0.75
	matchScoreFloor     = 0.1
)

// InstitutionMatcher compares a claimed institution against the
// trusted-issuer registry. It degrades to a low, non-zero score instead of
// failing when nothing is provided or nothing matches.
type InstitutionMatcher struct {
	Issuers IssuerDirectory
	Logger  *slog.Logger
}

func NewInstitutionMatcher(issuers IssuerDirectory, log *slog.Logger) *InstitutionMatcher {
	if log == nil {
		log = slog.Default()
	}
	return &InstitutionMatcher{Issuers: issuers, Logger: log}
}

func (m *InstitutionMatcher) Match(ctx context.Context, institution string, logo []byte) domain.InstitutionMatch {
	out := domain.InstitutionMatch{Score: matchScoreFloor, Confidence: 0.2}
	if len(logo) > 0 {
		sum := sha256.Sum256(logo)
		out.LogoSHA256 = hex.EncodeToString(sum[:])
	}
	claimed := normalizeName(institution)
	if claimed == "" {
		return out
	}

	issuers, err := m.Issuers.ActiveIssuers(ctx)
	if err != nil {
		// Registry unavailability is a soft failure for matching.
		m.Logger.Warn("trusted-issuer registry unavailable", "err", err)
		return out
	}

	for _, issuer := range issuers {
		name := normalizeName(issuer.Name)
		if name != "" && name == claimed && attribute(&out, issuer, matchScoreExact, 0.9, "") {
			return out
		}
	}

	for _, issuer := range issuers {
		if tmpl, ok := matchTemplate(issuer, institution); ok {
			if matchScoreTemplate > out.Score {
				attribute(&out, issuer, matchScoreTemplate, 0.7, tmpl)
			}
			continue
		}
		if substringMatch(issuer, claimed) && matchScoreSubstring > out.Score {
			attribute(&out, issuer, matchScoreSubstring, 0.6, "")
		}
	}
	return out
}

// attribute records the issuer on the match, unless the tier confidence
// falls below the issuer's own floor. An issuer that sets
// ConfidenceThreshold 0.8 never gets credited from a substring match.
func attribute(out *domain.InstitutionMatch, issuer domain.TrustedIssuer, score, confidence float64, template string) bool {
	if issuer.ConfidenceThreshold > 0 && confidence < issuer.ConfidenceThreshold {
		return false
	}
	out.Score = score
	out.Confidence = confidence
	out.IssuerID = issuer.ID
	out.IssuerName = issuer.Name
	out.QRVerifyURL = issuer.QRVerifyURL
	out.MatchedTemplate = template
	return true
}

func matchTemplate(issuer domain.TrustedIssuer, institution string) (string, bool) {
	for _, pattern := range issuer.TemplatePatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			continue
		}
		if re.MatchString(institution) {
			return pattern, true
		}
	}
	return "", false
}

func substringMatch(issuer domain.TrustedIssuer, claimed string) bool {
	name := normalizeName(issuer.Name)
	if name != "" && (strings.Contains(claimed, name) || strings.Contains(name, claimed)) {
		return true
	}
	dom := strings.ToLower(strings.TrimSpace(issuer.Domain))
	return dom != "" && strings.Contains(claimed, strings.TrimSuffix(dom, ".edu"))
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return collapseSpaces(strings.Trim(s, ",."))
}

// IssuerDirectory serves registry reads for the matcher, optionally through
// a TTL cache. Verification rules are never cached; only the issuer
// registry, which is admin-maintained and read-heavy.
type IssuerDirectory interface {
	ActiveIssuers(ctx context.Context) ([]domain.TrustedIssuer, error)
}

type CachingIssuerDirectory struct {
	Repo  IssuerRepository
	Cache IssuerCache
	TTL   time.Duration
}

func (d *CachingIssuerDirectory) ActiveIssuers(ctx context.Context) ([]domain.TrustedIssuer, error) {
	if d.Cache != nil && d.TTL > 0 {
		if issuers, ok, err := d.Cache.Get(ctx); err == nil && ok {
			return issuers, nil
		}
	}
	issuers, err := d.Repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if d.Cache != nil && d.TTL > 0 {
		_ = d.Cache.Put(ctx, issuers)
	}
	return issuers, nil
}
