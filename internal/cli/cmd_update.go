package cli

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/service"
)

const updateHelp = `  update <plan> [<task>] Update a task's status, title, or body`

var (
	errBodyFlagsConflict = errors.New("--body and --clear-body are mutually exclusive")
	errUnknownStatus     = errors.New("status must be todo, doing, or done")
)

func cmdUpdate(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, updateHelp)
		fprintln(out, `
Flags:
  --status <s>      todo, doing, or done
  --title <text>    New title
  --body <text>     Replace the task body
  --clear-body      Remove the task body
  --if-match <etag> Abort if the document changed since this etag
                    (required when <task> is omitted)`)

		return nil
	}

	flagSet := flag.NewFlagSet("update", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	status := flagSet.String("status", "", "New status")
	title := flagSet.String("title", "", "New title")
	body := flagSet.String("body", "", "New body markdown")
	clearBody := flagSet.Bool("clear-body", false, "Remove the body")
	ifMatch := flagSet.String("if-match", "", "Expected etag")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return errPlanIDRequired
	}

	if *status != "" && !plan.IsValidStatus(plan.Status(*status)) {
		return fmt.Errorf("%w: %q", errUnknownStatus, *status)
	}

	setBody := flagSet.Changed("body")
	if setBody && *clearBody {
		return errBodyFlagsConflict
	}

	taskID := ""
	if len(rest) > 1 {
		taskID = rest[1]
	}

	etag, err := svc.UpdateTask(rest[0], taskID, service.UpdateTaskOptions{
		Status:    plan.Status(*status),
		Title:     *title,
		Body:      *body,
		SetBody:   setBody,
		ClearBody: *clearBody,
		IfMatch:   *ifMatch,
	})
	if err != nil {
		return err
	}

	fprintln(out, "etag:", etag)

	return nil
}
