package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nginxProtocolsRe   = directiveRe("ssl_protocols")
	nginxCiphersRe     = directiveRe("ssl_ciphers")
	nginxStaplingRe    = regexp.MustCompile(`(?im)^\s*ssl_stapling\s+on\s*;`)
	nginxSessCacheRe   = directiveRe("ssl_session_cache")
	nginxTicketsOffRe  = regexp.MustCompile(`(?im)^\s*ssl_session_tickets\s+off\s*;`)
	nginxCertRe        = directiveRe("ssl_certificate")
	nginxCertKeyRe     = directiveRe("ssl_certificate_key")
	nginxHTTP2Re       = regexp.MustCompile(`(?im)(^\s*listen\s[^;]*\bhttp2\b|^\s*http2\s+on\s*;)`)
	nginxDHParamRe     = directiveRe("ssl_dhparam")
)

// nginxRules is the fixed catalog for nginx-style configurations. Rules
// are order-independent; the catalog order only shapes report output.
var nginxRules = []Rule{
	{
		Name:        "tls12-enabled",
		Description: "TLS 1.2 enabled in ssl_protocols",
		Severity:    "high",
		Check: func(text string) (Outcome, string) {
			if strings.Contains(text, "TLSv1.2") {
				return OutcomePass, "TLS 1.2 enabled"
			}
			return OutcomeWarn, "ssl_protocols does not enable TLSv1.2"
		},
		Recommendation: "Add TLSv1.2 to the ssl_protocols directive",
	},
	{
		Name:        "tls13-enabled",
		Description: "TLS 1.3 enabled in ssl_protocols",
		Severity:    "medium",
		Check: func(text string) (Outcome, string) {
			if strings.Contains(text, "TLSv1.3") {
				return OutcomePass, "TLS 1.3 enabled"
			}
			return OutcomeWarn, "ssl_protocols does not enable TLSv1.3"
		},
		Recommendation: "Add TLSv1.3 to the ssl_protocols directive",
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
		Recommendation: "Use 'ssl_protocols TLSv1.2 TLSv1.3;' only",
	},
	{
		Name:           "cipher-list",
		Description:    "Explicit cipher list configured",
		Severity:       "low",
		Check:          presence(nginxCiphersRe, "ssl_ciphers directive present", "no ssl_ciphers directive (server defaults apply)"),
		Recommendation: "Pin ssl_ciphers to a modern AEAD cipher list",
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
		Recommendation: "Remove weak ciphers from ssl_ciphers (or exclude them with '!')",
	},
	{
		Name:           "ocsp-stapling",
		Description:    "OCSP stapling enabled",
		Severity:       "medium",
		Check:          presence(nginxStaplingRe, "ssl_stapling enabled", "ssl_stapling not enabled"),
		Recommendation: "Enable 'ssl_stapling on;' and 'ssl_stapling_verify on;'",
	},
	{
		Name:           "session-cache",
		Description:    "TLS session cache configured",
		Severity:       "low",
		Check:          presence(nginxSessCacheRe, "ssl_session_cache configured", "no ssl_session_cache directive"),
		Recommendation: "Configure 'ssl_session_cache shared:SSL:10m;'",
	},
	{
		Name:           "session-tickets-disabled",
		Description:    "TLS session tickets explicitly disabled",
		Severity:       "low",
		Check:          presence(nginxTicketsOffRe, "ssl_session_tickets disabled", "ssl_session_tickets not explicitly disabled"),
		Recommendation: "Set 'ssl_session_tickets off;' unless tickets are rotated",
	},
	{
		Name:           "hsts",
		Description:    "HSTS header with one-year max-age and includeSubDomains",
		Severity:       "high",
		Check:          checkHSTS,
		Recommendation: "Add 'add_header Strict-Transport-Security \"max-age=31536000; includeSubDomains\" always;'",
	},
	{
		Name:           "certificate",
		Description:    "TLS certificate directive present",
		Severity:       "critical",
		Check:          requirement(nginxCertRe, "ssl_certificate configured", "ssl_certificate directive missing"),
		Recommendation: "Point ssl_certificate at the full certificate chain",
	},
	{
		Name:           "certificate-key",
		Description:    "TLS certificate key directive present",
		Severity:       "critical",
		Check:          requirement(nginxCertKeyRe, "ssl_certificate_key configured", "ssl_certificate_key directive missing"),
		Recommendation: "Point ssl_certificate_key at the private key",
	},
	{
		Name:           "http2",
		Description:    "HTTP/2 enabled",
		Severity:       "low",
		Check:          presence(nginxHTTP2Re, "HTTP/2 enabled", "HTTP/2 not enabled"),
		Recommendation: "Enable HTTP/2 ('listen 443 ssl http2;' or 'http2 on;')",
	},
	{
		Name:           "dhparam",
		Description:    "Custom DH parameters configured",
		Severity:       "low",
		Check:          presence(nginxDHParamRe, "ssl_dhparam configured", "no ssl_dhparam directive"),
		Recommendation: "Generate >=2048-bit DH parameters and set ssl_dhparam",
	},
}
