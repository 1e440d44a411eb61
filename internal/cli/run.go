// Package cli implements the planmd command-line surface. It parses flags,
// wires config, store, and service together, and renders results; all
// document semantics live in internal/plan and internal/service.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/calvinalkan/planmd/internal/config"
	"github.com/calvinalkan/planmd/internal/service"
	"github.com/calvinalkan/planmd/internal/store"
)

const helpFlag = "--help"

// Run is the main entry point. Returns the process exit code.
func Run(out io.Writer, errOut io.Writer, args []string) int {
	if len(args) < 2 {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	overrides := config.Config{RootDir: flags.rootDir, DocsDir: flags.docsDir}

	cfg, sources, err := config.Load(workDir, flags.configPath, overrides)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	rootDir := cfg.RootDir
	if rootDir == "." {
		rootDir = workDir
	}

	st, err := store.New(rootDir, cfg.DocsDir)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	logger := log.New(io.Discard)
	if flags.verbose {
		logger = log.NewWithOptions(errOut, log.Options{
			Level:  log.DebugLevel,
			Prefix: "planmd",
		})
	}

	svc := service.New(st, logger)

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	rest := flags.remaining[1:]

	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	var cmdErr error

	switch cmd {
	case "create":
		cmdErr = cmdCreate(out, svc, rest)
	case "ls":
		cmdErr = cmdLs(out, svc, rest)
	case "show":
		cmdErr = cmdShow(out, svc, rest)
	case "task":
		cmdErr = cmdTask(out, svc, rest)
	case "add":
		cmdErr = cmdAdd(out, svc, rest)
	case "update":
		cmdErr = cmdUpdate(out, svc, rest)
	case "rm":
		cmdErr = cmdRm(out, svc, rest)
	case "search":
		cmdErr = cmdSearch(out, svc, rest)
	case "check":
		return cmdCheck(out, errOut, svc, rest)
	case "repair":
		cmdErr = cmdRepair(out, svc, rest)
	case "print-config":
		cmdErr = cmdPrintConfig(out, cfg, sources, st)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	return 0
}

type globalFlags struct {
	workDir    string
	configPath string
	rootDir    string
	docsDir    string
	verbose    bool
	remaining  []string
}

var errFlagRequiresArg = fmt.Errorf("flag requires an argument")

// parseGlobalFlags consumes leading global flags and leaves the command and
// its arguments in remaining.
func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	i := 0

	for i < len(args) {
		arg := args[i]

		takeValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
			}

			i++

			return args[i], nil
		}

		var err error

		switch arg {
		case "-C":
			flags.workDir, err = takeValue()
		case "--config":
			flags.configPath, err = takeValue()
		case "--root":
			flags.rootDir, err = takeValue()
		case "--docs":
			flags.docsDir, err = takeValue()
		case "--verbose", "-v":
			flags.verbose = true
		default:
			flags.remaining = args[i:]

			return flags, nil
		}

		if err != nil {
			return globalFlags{}, err
		}

		i++
	}

	return flags, nil
}
