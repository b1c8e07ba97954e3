package constants

import "io/fs"

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// HistoryFilename is the JSONL file of past run summaries in the results dir.
	HistoryFilename = "history.jsonl"
	// MaxRequestBodyBytes caps API request bodies; configuration files are small.
	MaxRequestBodyBytes = 1 << 20
)
