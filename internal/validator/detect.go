package validator

import (
	"fmt"
	"strings"

	sharederrors "github.com/khanhnv2901/tlsaudit-cli/internal/shared/errors"
)

// Dialect selects which rule catalog applies to a configuration text.
type Dialect string

const (
	DialectNginx  Dialect = "nginx"
	DialectApache Dialect = "apache"
	DialectAuto   Dialect = "auto"
)

// dialectMarkers is the ordered sniffing table: the first marker found in
// the text wins. Markers are literal substrings of dialect-specific
// directives, matched verbatim. The nginx markers are listed first, so a
// text carrying markers of both dialects resolves as nginx; force --type
// to override.
var dialectMarkers = []struct {
	marker  string
	dialect Dialect
}{
	{"server_name", DialectNginx},
	{"ssl_protocols", DialectNginx},
	{"listen 443 ssl", DialectNginx},
	{"VirtualHost", DialectApache},
	{"SSLEngine", DialectApache},
}

// DetectDialect sniffs the configuration text for dialect markers.
// Returns ErrUndetectableDialect when no marker matches.
func DetectDialect(text string) (Dialect, error) {
	for _, entry := range dialectMarkers {
		if strings.Contains(text, entry.marker) {
			return entry.dialect, nil
		}
	}
	return "", sharederrors.ErrUndetectableDialect
}

// ResolveDialect turns a user-supplied --type value into a concrete
// dialect, auto-detecting when requested.
func ResolveDialect(text, requested string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(requested))) {
	case DialectNginx:
		return DialectNginx, nil
	case DialectApache:
		return DialectApache, nil
	case DialectAuto, "":
		return DetectDialect(text)
	default:
		return "", fmt.Errorf("%w: %s", sharederrors.ErrUnsupportedDialect, requested)
	}
}

// CatalogFor returns the rule catalog for a resolved dialect.
func CatalogFor(dialect Dialect) []Rule {
	switch dialect {
	case DialectApache:
		return apacheRules
	default:
		return nginxRules
	}
}
