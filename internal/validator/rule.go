package validator

import (
	"fmt"
	"regexp"
	"strconv"
)

// Outcome is the tri-state result of a single rule applied to a
// configuration text.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeWarn Outcome = "warn"
	OutcomeFail Outcome = "fail"
)

// Rule is a single named check in a dialect catalog. Check must be a total
// function over any text: absence of a pattern is a countable outcome,
// never an error.
type Rule struct {
	Name           string
	Description    string
	Severity       string // "critical", "high", "medium", "low"
	Check          func(text string) (Outcome, string)
	Recommendation string
}

// Finding records the outcome of one rule for one configuration text.
type Finding struct {
	Rule           string  `json:"rule"`
	Outcome        Outcome `json:"outcome"`
	Severity       string  `json:"severity"`
	Detail         string  `json:"detail,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// EvaluationResult accumulates the counters for a single evaluation pass.
// Passed+Warnings+Errors always equals len(Findings).
type EvaluationResult struct {
	Passed   int       `json:"passed"`
	Warnings int       `json:"warnings"`
	Errors   int       `json:"errors"`
	Findings []Finding `json:"findings"`
}

// Total returns the number of rules evaluated.
func (r EvaluationResult) Total() int {
	return r.Passed + r.Warnings + r.Errors
}

// ApplyStrict promotes every warning to an error for counting purposes.
// Findings keep their original outcome; only the counters change.
func (r EvaluationResult) ApplyStrict() EvaluationResult {
	r.Errors += r.Warnings
	r.Warnings = 0
	return r
}

// MinHSTSMaxAge is the minimum acceptable HSTS max-age (one year).
const MinHSTSMaxAge = 31536000

// deprecatedProtocolRe matches legacy protocol tokens. The leading
// character class excludes '-' and '!' so OpenSSL/Apache exclusion syntax
// ("-all", "!SSLv3") does not count as presence, while "+SSLv3" does.
// The trailing class stops "TLSv1" from matching inside "TLSv1.2".
var deprecatedProtocolRe = regexp.MustCompile(`(?i)(^|[\s'"+,:])(SSLv2|SSLv3|TLSv1(\.0|\.1)?)([\s;'",:]|$)`)

// weakCipherRe matches cipher markers that fail PCI DSS style checks.
// Tokens preceded by '!' are exclusions in an OpenSSL cipher string and do
// not count; tokens embedded in a longer word ("DESCRIPTION") do not match.
var weakCipherRe = regexp.MustCompile(`(?i)(^|[^!\w])(3DES|DES|RC4|MD5|EXPORT|NULL)([^\w]|$)`)

var (
	hstsHeaderRe  = regexp.MustCompile(`(?i)Strict-Transport-Security`)
	hstsMaxAgeRe  = regexp.MustCompile(`(?i)max-age\s*=\s*"?(\d+)`)
	hstsSubDomRe  = regexp.MustCompile(`(?i)includeSubDomains`)
	ecdheMarkerRe = regexp.MustCompile(`(?i)ECDHE`)
)

// directiveRe builds a line-anchored matcher for a configuration directive
// followed by whitespace, so "ssl_certificate" does not match inside
// "ssl_certificate_key".
func directiveRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^\s*` + regexp.QuoteMeta(name) + `\s`)
}

func hasDeprecatedProtocol(text string) (string, bool) {
	m := deprecatedProtocolRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[2], true
}

func hasWeakCipher(text string) (string, bool) {
	m := weakCipherRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// checkHSTS evaluates a Strict-Transport-Security declaration anywhere in
// the text: pass needs max-age >= one year plus includeSubDomains.
func checkHSTS(text string) (Outcome, string) {
	if !hstsHeaderRe.MatchString(text) {
		return OutcomeWarn, "no Strict-Transport-Security header configured"
	}
	m := hstsMaxAgeRe.FindStringSubmatch(text)
	if m == nil {
		return OutcomeWarn, "Strict-Transport-Security present but max-age missing"
	}
	maxAge, err := strconv.Atoi(m[1])
	if err != nil || maxAge < MinHSTSMaxAge {
		return OutcomeWarn, fmt.Sprintf("HSTS max-age=%s is below %d (one year)", m[1], MinHSTSMaxAge)
	}
	if !hstsSubDomRe.MatchString(text) {
		return OutcomeWarn, "HSTS missing includeSubDomains"
	}
	return OutcomePass, fmt.Sprintf("HSTS configured with max-age=%d and includeSubDomains", maxAge)
}

// presence wraps a directive matcher into a pass/warn predicate.
func presence(re *regexp.Regexp, passDetail, warnDetail string) func(string) (Outcome, string) {
	return func(text string) (Outcome, string) {
		if re.MatchString(text) {
			return OutcomePass, passDetail
		}
		return OutcomeWarn, warnDetail
	}
}

// requirement wraps a directive matcher into a pass/fail predicate for
// directives whose absence is a hard failure.
func requirement(re *regexp.Regexp, passDetail, failDetail string) func(string) (Outcome, string) {
	return func(text string) (Outcome, string) {
		if re.MatchString(text) {
			return OutcomePass, passDetail
		}
		return OutcomeFail, failDetail
	}
}
