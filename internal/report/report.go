// Package report renders finalized evaluation results as human-readable
// text or a single JSON object, and derives the grade and exit status
// callers (including CI pipelines) depend on.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/khanhnv2901/tlsaudit-cli/internal/validator"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// Counts is the results block of a report.
type Counts struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Total    int `json:"total"`
}

// Report is the derived, read-only view over one evaluation pass.
type Report struct {
	Version    string              `json:"version"`
	File       string              `json:"file"`
	ServerType string              `json:"server_type"`
	Timestamp  string              `json:"timestamp"`
	Results    Counts              `json:"results"`
	Status     string              `json:"status"`
	Grade      string              `json:"grade"`
	Findings   []validator.Finding `json:"findings,omitempty"`
}

// New builds a report from a finalized evaluation result. The timestamp is
// ISO-8601 UTC.
func New(version, file string, dialect validator.Dialect, result validator.EvaluationResult, now time.Time) Report {
	return Report{
		Version:    version,
		File:       file,
		ServerType: string(dialect),
		Timestamp:  now.UTC().Format(time.RFC3339),
		Results: Counts{
			Passed:   result.Passed,
			Warnings: result.Warnings,
			Errors:   result.Errors,
			Total:    result.Total(),
		},
		Status:   statusFor(result.Errors),
		Grade:    GradeFor(result.Warnings, result.Errors),
		Findings: result.Findings,
	}
}

// GradeFor derives the letter grade: A+ with a clean run, B with warnings
// only, C once anything fails.
func GradeFor(warnings, errors int) string {
	switch {
	case warnings == 0 && errors == 0:
		return "A+"
	case errors == 0:
		return "B"
	default:
		return "C"
	}
}

func statusFor(errors int) string {
	if errors == 0 {
		return "pass"
	}
	return "fail"
}

// Passed reports whether the run had zero errors (exit code 0).
func (r Report) Passed() bool {
	return r.Results.Errors == 0
}

// JSON serializes the report as a single indented JSON object.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteText renders the multi-line human-readable summary. Warnings and
// failures are always listed; verbose additionally prints passed rules.
func (r Report) WriteText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "%s %s (%s)\n", colorInfo("Validating:"), r.File, r.ServerType)
	fmt.Fprintln(w)

	for _, f := range r.Findings {
		switch f.Outcome {
		case validator.OutcomePass:
			if verbose {
				fmt.Fprintf(w, "  %s %s: %s\n", colorSuccess("✓"), f.Rule, f.Detail)
			}
		case validator.OutcomeWarn:
			fmt.Fprintf(w, "  %s %s: %s\n", colorWarn("!"), f.Rule, f.Detail)
		case validator.OutcomeFail:
			fmt.Fprintf(w, "  %s %s: %s\n", colorError("✗"), f.Rule, f.Detail)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d passed, %d warnings, %d errors (of %d checks)\n",
		colorInfo("Results:"), r.Results.Passed, r.Results.Warnings, r.Results.Errors, r.Results.Total)
	fmt.Fprintf(w, "%s %s\n", colorInfo("Grade:"), formatGrade(r.Grade))
	if r.Passed() {
		fmt.Fprintf(w, "%s validation passed\n", colorSuccess("✓"))
	} else {
		fmt.Fprintf(w, "%s validation failed\n", colorError("✗"))
	}
}

func formatGrade(grade string) string {
	switch grade {
	case "A+":
		return colorSuccess(grade)
	case "B":
		return colorWarn(grade)
	default:
		return colorError(grade)
	}
}
