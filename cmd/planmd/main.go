// Package main provides planmd, a CRUD tool for plan-markdown task
// documents.
package main

import (
	"os"

	"github.com/calvinalkan/planmd/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args))
}
