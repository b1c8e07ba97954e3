// Package constants centralizes shared defaults (file permissions, result
// filenames, request limits) so commands and the API server agree on them.
package constants
