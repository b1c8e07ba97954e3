package validator

import (
	"fmt"
	"regexp"
)

var (
	apacheCiphersRe     = directiveRe("SSLCipherSuite")
	apacheStaplingRe    = regexp.MustCompile(`(?im)^\s*SSLUseStapling\s+on\b`)
	apacheSessCacheRe   = directiveRe("SSLSessionCache")
	apacheTicketsOffRe  = regexp.MustCompile(`(?im)^\s*SSLSessionTickets\s+off\b`)
	apacheCertRe        = directiveRe("SSLCertificateFile")
	apacheCertKeyRe     = directiveRe("SSLCertificateKeyFile")
	apacheHTTP2Re       = regexp.MustCompile(`(?im)^\s*Protocols\s[^\n]*\bh2\b`)
	apacheCompressOffRe = regexp.MustCompile(`(?im)^\s*SSLCompression\s+off\b`)
)

// apacheProtocolEnabled reports whether an SSLProtocol line enables the
// given token. "+TLSv1.2" and bare "TLSv1.2" count; "-TLSv1.2" does not.
func apacheProtocolEnabled(text, token string) bool {
	re := regexp.MustCompile(`(?i)(^|[\s+])` + regexp.QuoteMeta(token) + `([\s;]|$)`)
	return re.MatchString(text)
}

// apacheRules is the fixed catalog for Apache httpd style configurations.
var apacheRules = []Rule{
	{
		Name:        "tls12-enabled",
		Description: "TLS 1.2 enabled in SSLProtocol",
		Severity:    "high",
		Check: func(text string) (Outcome, string) {
			if apacheProtocolEnabled(text, "TLSv1.2") {
				return OutcomePass, "TLS 1.2 enabled"
			}
			return OutcomeWarn, "SSLProtocol does not enable TLSv1.2"
		},
		Recommendation: "Use 'SSLProtocol -all +TLSv1.2 +TLSv1.3'",
	},
	{
		Name:        "tls13-enabled",
		Description: "TLS 1.3 enabled in SSLProtocol",
		Severity:    "medium",
		Check: func(text string) (Outcome, string) {
			if apacheProtocolEnabled(text, "TLSv1.3") {
				return OutcomePass, "TLS 1.3 enabled"
			}
			return OutcomeWarn, "SSLProtocol does not enable TLSv1.3"
		},
		Recommendation: "Add +TLSv1.3 to SSLProtocol",
	},
	{
		Name:        "no-deprecated-protocols",
		Description: "No SSLv2/SSLv3/TLS1.0/TLS1.1 protocols",
		Severity:    "critical",
		Check: func(text string) (Outcome, string) {
			if token, found := hasDeprecatedProtocol(text); found {
				return OutcomeFail, fmt.Sprintf("deprecated protocol %s is enabled", token)
			}
			return OutcomePass, "no deprecated protocols enabled"
		},
		Recommendation: "Use 'SSLProtocol -all +TLSv1.2 +TLSv1.3'",
	},
	{
		Name:           "cipher-list",
		Description:    "Explicit cipher list configured",
		Severity:       "low",
		Check:          presence(apacheCiphersRe, "SSLCipherSuite directive present", "no SSLCipherSuite directive (server defaults apply)"),
		Recommendation: "Pin SSLCipherSuite to a modern AEAD cipher list",
	},
	{
		Name:        "forward-secrecy",
		Description: "ECDHE key exchange available",
		Severity:    "high",
		Check: func(text string) (Outcome, string) {
			if ecdheMarkerRe.MatchString(text) {
				return OutcomePass, "ECDHE cipher suites configured"
			}
			return OutcomeWarn, "no ECDHE marker found; forward secrecy not guaranteed"
		},
		Recommendation: "Prefer ECDHE-based cipher suites for forward secrecy",
	},
	{
		Name:        "no-weak-ciphers",
		Description: "No DES/3DES/RC4/MD5/EXPORT/NULL cipher markers",
		Severity:    "critical",
		Check: func(text string) (Outcome, string) {
			if token, found := hasWeakCipher(text); found {
				return OutcomeFail, fmt.Sprintf("weak cipher marker %s present", token)
			}
			return OutcomePass, "no weak cipher markers"
		},
		Recommendation: "Remove weak ciphers from SSLCipherSuite (or exclude them with '!')",
	},
	{
		Name:           "ocsp-stapling",
		Description:    "OCSP stapling enabled",
		Severity:       "medium",
		Check:          presence(apacheStaplingRe, "SSLUseStapling enabled", "SSLUseStapling not enabled"),
		Recommendation: "Enable 'SSLUseStapling on' with an SSLStaplingCache",
	},
	{
		Name:           "session-cache",
		Description:    "TLS session cache configured",
		Severity:       "low",
		Check:          presence(apacheSessCacheRe, "SSLSessionCache configured", "no SSLSessionCache directive"),
		Recommendation: "Configure 'SSLSessionCache shmcb:...'",
	},
	{
		Name:           "session-tickets-disabled",
		Description:    "TLS session tickets explicitly disabled",
		Severity:       "low",
		Check:          presence(apacheTicketsOffRe, "SSLSessionTickets disabled", "SSLSessionTickets not explicitly disabled"),
		Recommendation: "Set 'SSLSessionTickets off' unless tickets are rotated",
	},
	{
		Name:           "hsts",
		Description:    "HSTS header with one-year max-age and includeSubDomains",
		Severity:       "high",
		Check:          checkHSTS,
		Recommendation: "Add 'Header always set Strict-Transport-Security \"max-age=31536000; includeSubDomains\"'",
	},
	{
		Name:           "certificate",
		Description:    "TLS certificate directive present",
		Severity:       "critical",
		Check:          requirement(apacheCertRe, "SSLCertificateFile configured", "SSLCertificateFile directive missing"),
		Recommendation: "Point SSLCertificateFile at the full certificate chain",
	},
	{
		Name:           "certificate-key",
		Description:    "TLS certificate key directive present",
		Severity:       "critical",
		Check:          requirement(apacheCertKeyRe, "SSLCertificateKeyFile configured", "SSLCertificateKeyFile directive missing"),
		Recommendation: "Point SSLCertificateKeyFile at the private key",
	},
	{
		Name:           "http2",
		Description:    "HTTP/2 enabled",
		Severity:       "low",
		Check:          presence(apacheHTTP2Re, "HTTP/2 enabled", "HTTP/2 not enabled"),
		Recommendation: "Enable 'Protocols h2 http/1.1'",
	},
	{
		Name:           "ssl-compression-disabled",
		Description:    "TLS compression explicitly disabled",
		Severity:       "low",
		Check:          presence(apacheCompressOffRe, "SSLCompression disabled", "SSLCompression not explicitly disabled"),
		Recommendation: "Set 'SSLCompression off' to rule out CRIME-style attacks",
	},
}
