package cli

import (
	"io"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/service"
)

const checkHelp = `  check <id>             Validate a plan and print diagnostics`

// cmdCheck returns the exit code directly: diagnostics are the output, and
// only error-severity findings fail the command.
func cmdCheck(out, errOut io.Writer, svc *service.Service, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, checkHelp)

		return 0
	}

	if len(args) == 0 {
		fprintln(errOut, "error:", errPlanIDRequired)

		return 1
	}

	diags, etag, err := svc.ValidatePlan(args[0])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	hasErrors := false

	for _, d := range diags {
		if d.Severity == plan.SeverityError {
			hasErrors = true

			fprintln(errOut, d.String())
		} else {
			fprintln(out, d.String())
		}
	}

	if hasErrors {
		return 1
	}

	fprintln(out, "ok")
	fprintln(out, "etag:", etag)

	return 0
}
