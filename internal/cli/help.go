package cli

import "io"

const usage = `planmd - plan files as markdown, edited without corruption

Usage:
  planmd [global flags] <command> [args]

Global flags:
  -C <dir>             Run as if started in <dir>
  --config <path>      Explicit config file (default: .planmd.json in workdir)
  --root <dir>         Override root_dir
  --docs <dir>         Override docs_dir
  -v, --verbose        Debug logging to stderr

Commands:
` + createHelp + `
` + lsHelp + `
` + showHelp + `
` + taskHelp + `
` + addHelp + `
` + updateHelp + `
` + rmHelp + `
` + searchHelp + `
` + checkHelp + `
` + repairHelp + `
  print-config           Show effective configuration

Run 'planmd <command> --help' for command details.`

func printUsage(out io.Writer) {
	fprintln(out, usage)
}
