package main

import "github.com/khanhnv2901/tlsaudit-cli/cmd"

// execCmd is indirected so tests can stub the CLI entrypoint.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
