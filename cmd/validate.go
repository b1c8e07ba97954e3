package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/tlsaudit-cli/internal/report"
	"github.com/khanhnv2901/tlsaudit-cli/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a TLS/security configuration file against the rule catalog",
	Long: `Run every rule in the dialect's catalog against a web server
configuration file and print a pass/warn/fail report with a letter grade.

The server dialect (nginx or apache) is auto-detected from the file
content unless --type forces one. Exit code is 0 when no rule fails,
1 when errors are found, and 2 when the invocation itself is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		serverType, _ := cmd.Flags().GetString("type")
		jsonOut, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		save, _ := cmd.Flags().GetBool("save")
		strict, _ := cmd.Flags().GetBool("strict")
		applyBoolDefault(cmd.Flags(), "strict", cliConfig.Defaults.Strict, func(v bool) { strict = v })

		if file == "" {
			return invocationError(errors.New("--file is required"))
		}

		start := time.Now()
		rep, err := runValidation(file, serverType, strict)
		if err != nil {
			return invocationError(err)
		}

		if jsonOut {
			data, err := rep.JSON()
			if err != nil {
				return fmt.Errorf("marshal report: %w", err)
			}
			fmt.Println(string(data))
		} else {
			rep.WriteText(os.Stdout, verbose)
		}

		if save || cliConfig.Defaults.SaveRuns {
			if err := persistRun(*rep, time.Since(start)); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save run: %v\n", err)
			}
		}

		if !rep.Passed() {
			return validationFailed()
		}
		return nil
	},
}

// runValidation is the single-file evaluation path shared by validate and
// the API service: load, resolve dialect, evaluate, build report.
func runValidation(file, serverType string, strict bool) (*report.Report, error) {
	text, err := validator.LoadConfig(file)
	if err != nil {
		return nil, err
	}

	dialect, err := validator.ResolveDialect(text, serverType)
	if err != nil {
		return nil, err
	}

	result := validator.Evaluate(text, dialect)
	if strict {
		result = result.ApplyStrict()
	}

	rep := report.New(Version, file, dialect, result, time.Now())
	logger.Debugw("validation complete",
		"file", file,
		"server_type", rep.ServerType,
		"strict", strict,
		"passed", rep.Results.Passed,
		"warnings", rep.Results.Warnings,
		"errors", rep.Results.Errors,
		"grade", rep.Grade,
	)
	return &rep, nil
}

func init() {
	validateCmd.Flags().StringP("file", "f", "", "path to the configuration file to validate (required)")
	validateCmd.Flags().StringP("type", "t", "auto", "server dialect: nginx, apache, or auto")
	validateCmd.Flags().Bool("strict", false, "promote all warnings to errors")
	validateCmd.Flags().Bool("json", false, "emit a single JSON report object instead of text")
	validateCmd.Flags().BoolP("verbose", "v", false, "also list passed rules in text mode")
	validateCmd.Flags().Bool("save", false, "persist the report under the results directory")
}
