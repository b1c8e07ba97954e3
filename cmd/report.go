package cmd

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strings"
	texttemplate "text/template"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"

	"github.com/khanhnv2901/tlsaudit-cli/internal/report"
	"github.com/khanhnv2901/tlsaudit-cli/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/tlsaudit-cli/internal/shared/errors"
	"github.com/khanhnv2901/tlsaudit-cli/internal/validator"
)

const (
	htmlTemplatePath     = "templates/report.html"
	markdownTemplatePath = "templates/report.md"
)

//go:embed templates/report.html templates/report.md
var reportTemplateFS embed.FS

// reportTemplateData is the view passed to the md/html templates: the
// report plus its findings split by outcome.
type reportTemplateData struct {
	Report   report.Report
	Failures []validator.Finding
	Warnings []validator.Finding
	Passes   []validator.Finding
}

var (
	reportTemplateFuncs = map[string]interface{}{
		"upper": strings.ToUpper,
	}

	htmlReportTemplate = template.Must(
		template.New("report.html").Funcs(reportTemplateFuncs).ParseFS(reportTemplateFS, htmlTemplatePath),
	)
	markdownReportTemplate = texttemplate.Must(
		texttemplate.New("report.md").Funcs(reportTemplateFuncs).ParseFS(reportTemplateFS, markdownTemplatePath),
	)
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a saved validation run as markdown, HTML, or PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		runPath, _ := cmd.Flags().GetString("run")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		if runPath == "" {
			return invocationError(fmt.Errorf("--run is required"))
		}

		format = strings.ToLower(format)
		if format != "md" && format != "html" && format != "pdf" {
			return invocationError(fmt.Errorf("%w: %s (must be md, html, or pdf)", sharederrors.ErrInvalidFormat, format))
		}

		rep, err := loadRun(runPath)
		if err != nil {
			return invocationError(err)
		}

		data := splitFindings(*rep)

		var content []byte
		switch format {
		case "md":
			content, err = renderMarkdownReport(data)
		case "html":
			content, err = renderHTMLReport(data)
		case "pdf":
			content, err = renderPDFReport(data)
		}
		if err != nil {
			return fmt.Errorf("generate %s report: %w", format, err)
		}

		if output == "" {
			if format == "pdf" {
				return invocationError(fmt.Errorf("--output is required for pdf"))
			}
			fmt.Print(string(content))
			return nil
		}

		if err := os.WriteFile(output, content, constants.DefaultFilePerm); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("%s %s\n", colorSuccess("Report written:"), output)
		return nil
	},
}

func splitFindings(rep report.Report) reportTemplateData {
	data := reportTemplateData{Report: rep}
	for _, f := range rep.Findings {
		switch f.Outcome {
		case validator.OutcomeFail:
			data.Failures = append(data.Failures, f)
		case validator.OutcomeWarn:
			data.Warnings = append(data.Warnings, f)
		default:
			data.Passes = append(data.Passes, f)
		}
	}
	return data
}

func renderMarkdownReport(data reportTemplateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownReportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderHTMLReport(data reportTemplateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlReportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDFReport(data reportTemplateData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "TLS Configuration Audit", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// Metadata section
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("File: %s", data.Report.File), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Server type: %s", data.Report.ServerType), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Audited: %s", data.Report.Timestamp), "", 1, "", false, 0, "")
	pdf.Ln(3)

	// Summary section
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Passed: %d | Warnings: %d | Errors: %d | Total: %d",
		data.Report.Results.Passed, data.Report.Results.Warnings,
		data.Report.Results.Errors, data.Report.Results.Total), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Grade: %s | Status: %s",
		data.Report.Grade, strings.ToUpper(data.Report.Status)), "", 1, "", false, 0, "")
	pdf.Ln(3)

	writeSection := func(title string, findings []validator.Finding, withRec bool) {
		if len(findings) == 0 {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, title, "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, f := range findings {
			pdf.MultiCell(0, 5, fmt.Sprintf("- %s (%s): %s", f.Rule, f.Severity, f.Detail), "", "", false)
			if withRec && f.Recommendation != "" {
				pdf.SetFont("Arial", "I", 8)
				pdf.MultiCell(0, 4, "  "+f.Recommendation, "", "", false)
				pdf.SetFont("Arial", "", 9)
			}
		}
		pdf.Ln(2)
	}

	writeSection("Failures", data.Failures, true)
	writeSection("Warnings", data.Warnings, true)
	writeSection("Passed checks", data.Passes, false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func init() {
	reportCmd.Flags().String("run", "", "path to a saved run JSON file (required)")
	reportCmd.Flags().String("format", "md", "output format: md, html, or pdf")
	reportCmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")
}
