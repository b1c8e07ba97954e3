package validator

import (
	"fmt"
	"os"
	"strings"

	sharederrors "github.com/khanhnv2901/tlsaudit-cli/internal/shared/errors"
)

// Evaluate applies every rule in the dialect's catalog exactly once and
// returns the finalized counters plus per-rule findings. Rules never abort
// the pass; every outcome is counted.
func Evaluate(text string, dialect Dialect) EvaluationResult {
	rules := CatalogFor(dialect)
	result := EvaluationResult{Findings: make([]Finding, 0, len(rules))}

	for _, rule := range rules {
		outcome, detail := rule.Check(text)
		switch outcome {
		case OutcomePass:
			result.Passed++
		case OutcomeWarn:
			result.Warnings++
		case OutcomeFail:
			result.Errors++
		}

		finding := Finding{
			Rule:     rule.Name,
			Outcome:  outcome,
			Severity: rule.Severity,
			Detail:   detail,
		}
		if outcome != OutcomePass {
			finding.Recommendation = rule.Recommendation
		}
		result.Findings = append(result.Findings, finding)
	}

	return result
}

// LoadConfig reads a configuration file. An unreadable or empty file is an
// invocation error; no rule runs against it.
func LoadConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %s", sharederrors.ErrEmptyConfig, path)
	}
	return string(data), nil
}
