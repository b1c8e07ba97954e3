package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/tlsaudit-cli/internal/report"
	sharederrors "github.com/khanhnv2901/tlsaudit-cli/internal/shared/errors"
	"github.com/khanhnv2901/tlsaudit-cli/internal/validator"
)

// testValidateService mirrors the CLI validation path without touching the
// filesystem.
type testValidateService struct{}

func (s *testValidateService) Validate(ctx context.Context, req ValidateRequest) (*report.Report, error) {
	if strings.TrimSpace(req.Config) == "" {
		return nil, sharederrors.ErrEmptyRequestConfig
	}
	dialect, err := validator.ResolveDialect(req.Config, req.ServerType)
	if err != nil {
		return nil, err
	}
	result := validator.Evaluate(req.Config, dialect)
	if req.Strict {
		result = result.ApplyStrict()
	}
	rep := report.New("test", "(inline)", dialect, result, time.Now())
	return &rep, nil
}

func newTestServer(cfg Config) *Server {
	if cfg.Validator == nil {
		cfg.Validator = &testValidateService{}
	}
	if cfg.Version == "" {
		cfg.Version = "test"
	}
	return NewServer(cfg)
}

func postValidate(t *testing.T, srv *Server, body ValidateRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleValidate(t *testing.T) {
	srv := newTestServer(Config{})

	rec := postValidate(t, srv, ValidateRequest{
		Config:     "server_name example.com;\nssl_protocols TLSv1.2 TLSv1.3;\n",
		ServerType: "auto",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("response is not a report: %v", err)
	}
	if rep.ServerType != "nginx" {
		t.Errorf("server_type = %s, want nginx", rep.ServerType)
	}
	if got := rep.Results.Passed + rep.Results.Warnings + rep.Results.Errors; got != rep.Results.Total {
		t.Errorf("counts do not sum: %d != %d", got, rep.Results.Total)
	}
}

func TestHandleValidateFailingConfigStillReturns200(t *testing.T) {
	srv := newTestServer(Config{})

	// Hard failures (missing certificate directives) are report content,
	// not transport errors.
	rec := postValidate(t, srv, ValidateRequest{Config: "ssl_protocols TLSv1.2;\n"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Status != "fail" {
		t.Errorf("status = %s, want fail", rep.Status)
	}
}

func TestHandleValidateBadRequests(t *testing.T) {
	srv := newTestServer(Config{})

	tests := []struct {
		name string
		req  ValidateRequest
	}{
		{name: "empty config", req: ValidateRequest{Config: "   "}},
		{name: "undetectable dialect", req: ValidateRequest{Config: "# nothing useful"}},
		{name: "unsupported type", req: ValidateRequest{Config: "server_name x;", ServerType: "haproxy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postValidate(t, srv, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleValidateStrict(t *testing.T) {
	srv := newTestServer(Config{})
	conf := "server_name x;\nssl_protocols TLSv1.2 TLSv1.3;\n"

	relaxed := postValidate(t, srv, ValidateRequest{Config: conf})
	strict := postValidate(t, srv, ValidateRequest{Config: conf, Strict: true})

	var rRep, sRep report.Report
	if err := json.Unmarshal(relaxed.Body.Bytes(), &rRep); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(strict.Body.Bytes(), &sRep); err != nil {
		t.Fatal(err)
	}

	if sRep.Results.Warnings != 0 {
		t.Errorf("strict warnings = %d, want 0", sRep.Results.Warnings)
	}
	if sRep.Results.Errors < rRep.Results.Errors {
		t.Errorf("strict errors %d < relaxed errors %d", sRep.Results.Errors, rRep.Results.Errors)
	}
}

func TestHandleValidateMethodNotAllowed(t *testing.T) {
	srv := newTestServer(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/validate", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(Config{Version: "9.9.9"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/version", nil))
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if body["version"] != "9.9.9" {
		t.Errorf("version = %s, want 9.9.9", body["version"])
	}
}

func TestAuthToken(t *testing.T) {
	srv := newTestServer(Config{AuthToken: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Auth-Token", "secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	srv := newTestServer(Config{RateLimit: 1, RateBurst: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(Config{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/validate", nil)
	req.Header.Set("Origin", "https://ci.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}

func TestClientAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	if got := clientAddress(req); got != "192.0.2.7" {
		t.Errorf("clientAddress = %s, want 192.0.2.7", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.7")
	if got := clientAddress(req); got != "203.0.113.5" {
		t.Errorf("forwarded clientAddress = %s, want 203.0.113.5", got)
	}
}
