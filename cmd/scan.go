package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/tlsaudit-cli/internal/report"
	"github.com/khanhnv2901/tlsaudit-cli/internal/validator"
)

// scanFileReport is one element of the JSON array emitted by scan --json.
type scanFileReport struct {
	File   string         `json:"file"`
	Error  string         `json:"error,omitempty"`
	Report *report.Report `json:"report,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>...",
	Short: "Validate many configuration files concurrently",
	Long: `Run the validate rule catalog against every listed file through a
bounded worker pool. The exit code aggregates per-file outcomes with
invocation errors taking precedence: 2 if any file is unreadable or its
dialect undetectable, else 1 if any file has rule errors, else 0.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serverType, _ := cmd.Flags().GetString("type")
		jsonOut, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		strict, _ := cmd.Flags().GetBool("strict")
		applyBoolDefault(cmd.Flags(), "strict", cliConfig.Defaults.Strict, func(v bool) { strict = v })
		if concurrency <= 0 {
			concurrency = cliConfig.Scan.Concurrency
		}

		runner := &validator.Runner{Concurrency: concurrency}
		results := runner.Run(cmd.Context(), args, serverType, strict)
		logger.Debugw("scan complete", "files", len(results), "concurrency", concurrency, "strict", strict)

		invocationFailed := false
		validationErrors := false

		if jsonOut {
			out := make([]scanFileReport, 0, len(results))
			for _, res := range results {
				entry := scanFileReport{File: res.Path}
				if res.Err != nil {
					invocationFailed = true
					entry.Error = res.Err.Error()
				} else {
					rep := report.New(Version, res.Path, res.Dialect, res.Result, time.Now())
					if !rep.Passed() {
						validationErrors = true
					}
					entry.Report = &rep
				}
				out = append(out, entry)
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal scan output: %w", err)
			}
			fmt.Println(string(data))
		} else {
			for _, res := range results {
				if res.Err != nil {
					invocationFailed = true
					fmt.Fprintf(os.Stderr, "%s %s: %v\n", colorError("Error:"), res.Path, res.Err)
					continue
				}
				rep := report.New(Version, res.Path, res.Dialect, res.Result, time.Now())
				if !rep.Passed() {
					validationErrors = true
				}
				rep.WriteText(os.Stdout, verbose)
				fmt.Println()
			}
			printScanSummary(results)
		}

		if invocationFailed {
			return &exitCodeError{code: ExitInvocation, err: errors.New("one or more files could not be validated"), quiet: jsonOut}
		}
		if validationErrors {
			return validationFailed()
		}
		return nil
	},
}

func printScanSummary(results []validator.FileResult) {
	passed, failed, skipped := 0, 0, 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			skipped++
		case res.Result.Errors > 0:
			failed++
		default:
			passed++
		}
	}
	fmt.Printf("%s %d files: %s, %s, %s\n",
		colorInfo("Scan complete."),
		len(results),
		colorSuccess(fmt.Sprintf("%d passed", passed)),
		colorError(fmt.Sprintf("%d failed", failed)),
		colorWarn(fmt.Sprintf("%d skipped", skipped)),
	)
}

func init() {
	scanCmd.Flags().StringP("type", "t", "auto", "server dialect: nginx, apache, or auto (per file)")
	scanCmd.Flags().Bool("strict", false, "promote all warnings to errors")
	scanCmd.Flags().Bool("json", false, "emit a JSON array of per-file reports")
	scanCmd.Flags().BoolP("verbose", "v", false, "also list passed rules in text mode")
	scanCmd.Flags().IntP("concurrency", "c", 0, "worker pool size (default from config)")
}
