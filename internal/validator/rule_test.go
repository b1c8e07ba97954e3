package validator

import "testing"

func TestHasDeprecatedProtocol(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		token string
		found bool
	}{
		{name: "bare SSLv3", text: "ssl_protocols SSLv3 TLSv1.2;", token: "SSLv3", found: true},
		{name: "apache enabled SSLv3", text: "SSLProtocol -all +SSLv3 +TLSv1.2", token: "SSLv3", found: true},
		{name: "tls 1.0", text: "ssl_protocols TLSv1 TLSv1.2;", token: "TLSv1", found: true},
		{name: "tls 1.1 dotted", text: "ssl_protocols TLSv1.1;", token: "TLSv1.1", found: true},
		{name: "modern only", text: "ssl_protocols TLSv1.2 TLSv1.3;", found: false},
		{name: "apache excluded SSLv3", text: "SSLProtocol all -SSLv3 -TLSv1 -TLSv1.1", found: false},
		{name: "openssl negated", text: "!SSLv3:TLSv1.2", found: false},
		{name: "no protocols at all", text: "listen 443 ssl;", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, found := hasDeprecatedProtocol(tt.text)
			if found != tt.found {
				t.Fatalf("hasDeprecatedProtocol(%q) found = %v, want %v (token %q)", tt.text, found, tt.found, token)
			}
			if found && token != tt.token {
				t.Errorf("token = %q, want %q", token, tt.token)
			}
		})
	}
}

func TestHasWeakCipher(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		found bool
	}{
		{name: "rc4 suite", text: "ssl_ciphers 'RC4-SHA';", found: true},
		{name: "3des suite", text: "ssl_ciphers 'DES-CBC3-SHA';", found: true},
		{name: "md5 mac", text: "SSLCipherSuite RC2-MD5", found: true},
		{name: "export grade", text: "ssl_ciphers 'EXP-EDH-RSA-DES-CBC-SHA:EXPORT40';", found: true},
		{name: "negated exclusions only", text: "ssl_ciphers 'ECDHE-RSA-AES128-GCM-SHA256:!RC4:!MD5:!3DES:!EXPORT:!NULL';", found: false},
		{name: "modern aead list", text: "ssl_ciphers 'ECDHE-RSA-AES128-GCM-SHA256:ECDHE-ECDSA-CHACHA20-POLY1305';", found: false},
		{name: "token inside word does not match", text: "# DESCRIPTION of the host", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, found := hasWeakCipher(tt.text)
			if found != tt.found {
				t.Errorf("hasWeakCipher(%q) = %v (token %q), want %v", tt.text, found, token, tt.found)
			}
		})
	}
}

func TestCheckHSTS(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Outcome
	}{
		{
			name: "full year with subdomains",
			text: `add_header Strict-Transport-Security "max-age=31536000; includeSubDomains" always;`,
			want: OutcomePass,
		},
		{
			name: "two years with preload",
			text: `Header always set Strict-Transport-Security "max-age=63072000; includeSubDomains; preload"`,
			want: OutcomePass,
		},
		{
			name: "max-age too low",
			text: `add_header Strict-Transport-Security "max-age=86400; includeSubDomains";`,
			want: OutcomeWarn,
		},
		{
			name: "missing includeSubDomains",
			text: `add_header Strict-Transport-Security "max-age=31536000";`,
			want: OutcomeWarn,
		},
		{
			name: "header without max-age",
			text: `add_header Strict-Transport-Security "includeSubDomains";`,
			want: OutcomeWarn,
		},
		{
			name: "no header",
			text: `server_name example.com;`,
			want: OutcomeWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, detail := checkHSTS(tt.text)
			if got != tt.want {
				t.Errorf("checkHSTS() = %s (%s), want %s", got, detail, tt.want)
			}
		})
	}
}

func TestApacheProtocolEnabled(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		token string
		want  bool
	}{
		{name: "plus prefixed", text: "SSLProtocol -all +TLSv1.2 +TLSv1.3", token: "TLSv1.2", want: true},
		{name: "bare token", text: "SSLProtocol TLSv1.2", token: "TLSv1.2", want: true},
		{name: "minus prefixed is disabled", text: "SSLProtocol all -TLSv1.2", token: "TLSv1.2", want: false},
		{name: "absent", text: "SSLProtocol -all +TLSv1.3", token: "TLSv1.2", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apacheProtocolEnabled(tt.text, tt.token); got != tt.want {
				t.Errorf("apacheProtocolEnabled(%q, %q) = %v, want %v", tt.text, tt.token, got, tt.want)
			}
		})
	}
}
