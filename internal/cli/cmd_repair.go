package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/service"
)

const repairHelp = `  repair <id>            Apply explicit repair actions to a plan`

var errNoRepairActions = errors.New("no repair actions requested (use --header and/or --ids)")

func cmdRepair(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, repairHelp)
		fprintln(out, `
Flags:
  --header          Insert the format header if absent
  --ids             Append generated id comments to task lines lacking one
  --dry-run         Compute the result and its etag without writing
  --if-match <etag> Abort if the document changed since this etag`)

		return nil
	}

	flagSet := flag.NewFlagSet("repair", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	header := flagSet.Bool("header", false, "Insert format header")
	ids := flagSet.Bool("ids", false, "Add missing task ids")
	dryRun := flagSet.Bool("dry-run", false, "Do not write")
	ifMatch := flagSet.String("if-match", "", "Expected etag")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return errPlanIDRequired
	}

	var actions []string

	if *header {
		actions = append(actions, plan.ActionAddFormatHeader)
	}

	if *ids {
		actions = append(actions, plan.ActionAddMissingIDs)
	}

	if len(actions) == 0 {
		return errNoRepairActions
	}

	outcome, err := svc.RepairPlan(rest[0], actions, *dryRun, *ifMatch)
	if err != nil {
		return err
	}

	if len(outcome.Applied) == 0 {
		fprintln(out, "nothing to repair")
	}

	for _, change := range outcome.Applied {
		verb := "applied"
		if outcome.DryRun {
			verb = "would apply"
		}

		fprintf(out, "%s %s at line %d\n", verb, change.Action, change.Line+1)
	}

	if outcome.DryRun {
		fprintln(out, "would-be etag:", outcome.Etag)
	} else {
		fprintln(out, "etag:", outcome.Etag)
	}

	return nil
}
