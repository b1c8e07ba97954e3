package validator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	sharederrors "github.com/khanhnv2901/tlsaudit-cli/internal/shared/errors"
)

func writeTempConf(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestRunnerPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTempConf(t, dir, "a.conf", "server_name a.example.com;\nssl_protocols TLSv1.2;\n"),
		writeTempConf(t, dir, "b.conf", "<VirtualHost *:443>\nSSLEngine on\n</VirtualHost>\n"),
		writeTempConf(t, dir, "c.conf", "server_name c.example.com;\n"),
	}

	runner := &Runner{Concurrency: 2}
	results := runner.Run(context.Background(), paths, "auto", false)

	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("results[%d].Path = %s, want %s", i, res.Path, paths[i])
		}
	}
	if results[0].Dialect != DialectNginx {
		t.Errorf("a.conf dialect = %s, want nginx", results[0].Dialect)
	}
	if results[1].Dialect != DialectApache {
		t.Errorf("b.conf dialect = %s, want apache", results[1].Dialect)
	}
}

func TestRunnerReportsFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeTempConf(t, dir, "good.conf", "server_name ok.example.com;\n")
	undetectable := writeTempConf(t, dir, "plain.conf", "# no markers here\n")
	missing := filepath.Join(dir, "missing.conf")

	runner := &Runner{Concurrency: 4}
	results := runner.Run(context.Background(), []string{good, undetectable, missing}, "auto", false)

	if results[0].Err != nil {
		t.Errorf("good file returned error: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, sharederrors.ErrUndetectableDialect) {
		t.Errorf("undetectable file error = %v, want ErrUndetectableDialect", results[1].Err)
	}
	if results[2].Err == nil {
		t.Error("missing file should return an error")
	}
}

func TestRunnerAppliesStrict(t *testing.T) {
	dir := t.TempDir()
	path := writeTempConf(t, dir, "min.conf", "ssl_protocols TLSv1.2 TLSv1.3;\nssl_ciphers 'ECDHE-RSA-AES128-GCM-SHA256';\n")

	runner := &Runner{Concurrency: 1}
	relaxed := runner.Run(context.Background(), []string{path}, "nginx", false)[0]
	strict := runner.Run(context.Background(), []string{path}, "nginx", true)[0]

	if strict.Result.Warnings != 0 {
		t.Errorf("strict Warnings = %d, want 0", strict.Result.Warnings)
	}
	if strict.Result.Errors != relaxed.Result.Errors+relaxed.Result.Warnings {
		t.Errorf("strict Errors = %d, want %d", strict.Result.Errors, relaxed.Result.Errors+relaxed.Result.Warnings)
	}
}

func TestRunnerZeroConcurrencyDefaultsToOne(t *testing.T) {
	dir := t.TempDir()
	path := writeTempConf(t, dir, "one.conf", "server_name one.example.com;\n")

	runner := &Runner{}
	results := runner.Run(context.Background(), []string{path}, "auto", false)
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	empty := writeTempConf(t, dir, "empty.conf", "  \n\t\n")

	if _, err := LoadConfig(empty); !errors.Is(err, sharederrors.ErrEmptyConfig) {
		t.Errorf("LoadConfig(empty) error = %v, want ErrEmptyConfig", err)
	}
	if _, err := LoadConfig(filepath.Join(dir, "nope.conf")); err == nil {
		t.Error("LoadConfig(missing) should fail")
	}
}
