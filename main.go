// main package for covnet command-line tool
// Package main is the entry point for the Covnet CLI.
package main

import "covnet.dev/pkg/covnet/cmd"

func main() {
	cmd.Execute()
}
