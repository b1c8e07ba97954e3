package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/khanhnv2901/tlsaudit-cli/internal/report"
	"github.com/khanhnv2901/tlsaudit-cli/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/tlsaudit-cli/internal/shared/errors"
	"github.com/khanhnv2901/tlsaudit-cli/internal/shared/security"
)

// runRecord is one line of history.jsonl: the summary of a finished run.
type runRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	File            string    `json:"file"`
	ServerType      string    `json:"server_type"`
	Passed          int       `json:"passed"`
	Warnings        int       `json:"warnings"`
	Errors          int       `json:"errors"`
	Total           int       `json:"total"`
	Grade           string    `json:"grade"`
	Status          string    `json:"status"`
	DurationSeconds float64   `json:"duration_seconds"`
	RunFile         string    `json:"run_file,omitempty"`
}

// persistRun writes the full report to run_<nanos>.json in the results
// directory and appends the summary line to history.jsonl.
func persistRun(rep report.Report, duration time.Duration) error {
	if err := ensureResultsDir(); err != nil {
		return err
	}

	data, err := rep.JSON()
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	runName := fmt.Sprintf("run_%d.json", time.Now().UnixNano())
	runPath, err := security.ResolveWithin(resultsDir, runName)
	if err != nil {
		return fmt.Errorf("resolve run path: %w", err)
	}
	if err := os.WriteFile(runPath, data, constants.DefaultFilePerm); err != nil {
		return fmt.Errorf("write run file: %w", err)
	}

	record := runRecord{
		Timestamp:       time.Now().UTC(),
		File:            rep.File,
		ServerType:      rep.ServerType,
		Passed:          rep.Results.Passed,
		Warnings:        rep.Results.Warnings,
		Errors:          rep.Results.Errors,
		Total:           rep.Results.Total,
		Grade:           rep.Grade,
		Status:          rep.Status,
		DurationSeconds: duration.Seconds(),
		RunFile:         runName,
	}
	if err := appendHistory(record); err != nil {
		return err
	}

	logger.Debugw("run persisted", "path", runPath, "file", rep.File, "grade", rep.Grade)
	fmt.Fprintf(os.Stderr, "%s %s\n", colorInfo("Saved:"), runPath)
	return nil
}

func appendHistory(record runRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}

	historyPath, err := security.ResolveWithin(resultsDir, constants.HistoryFilename)
	if err != nil {
		return fmt.Errorf("resolve history path: %w", err)
	}
	f, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// loadHistory returns up to limit records, most recent first. Malformed
// lines are skipped so a truncated write never blocks the command.
func loadHistory(limit int) ([]runRecord, error) {
	historyPath, err := security.ResolveWithin(resultsDir, constants.HistoryFilename)
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	f, err := os.Open(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sharederrors.ErrEmptyHistory
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var records []runRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec runRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		return nil, sharederrors.ErrEmptyHistory
	}

	// newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// loadRun reads a persisted report back for offline rendering.
func loadRun(path string) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", sharederrors.ErrRunNotFound, path)
		}
		return nil, fmt.Errorf("read run file: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrInvalidRun, err)
	}
	if rep.Timestamp == "" || rep.Results.Total == 0 {
		return nil, fmt.Errorf("%w: %s", sharederrors.ErrInvalidRun, path)
	}
	return &rep, nil
}
