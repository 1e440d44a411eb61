package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/service"
)

const addHelp = `  add <plan> <title>     Add a task`

var errTitleRequired = errors.New("task title is required")

func cmdAdd(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, addHelp)
		fprintln(out, `
Flags:
  --parent <id>     Insert as last child of this task
  --before <id>     Insert immediately before this sibling task
  --section <path>  Insert under this heading path, "A/B" style
  --status <s>      todo (default), doing, or done
  --body <text>     Task body markdown
  --if-match <etag> Abort if the document changed since this etag`)

		return nil
	}

	flagSet := flag.NewFlagSet("add", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	parent := flagSet.String("parent", "", "Parent task id")
	before := flagSet.String("before", "", "Sibling anchor task id")
	section := flagSet.String("section", "", "Heading path, slash-separated")
	status := flagSet.String("status", "", "Initial status")
	body := flagSet.String("body", "", "Task body markdown")
	ifMatch := flagSet.String("if-match", "", "Expected etag")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return errPlanIDRequired
	}

	if len(rest) < 2 {
		return errTitleRequired
	}

	if *status != "" && !plan.IsValidStatus(plan.Status(*status)) {
		return fmt.Errorf("%w: %q", errUnknownStatus, *status)
	}

	var sectionPath []string
	if *section != "" {
		sectionPath = strings.Split(*section, "/")
		for i := range sectionPath {
			sectionPath[i] = strings.TrimSpace(sectionPath[i])
		}
	}

	taskID, etag, err := svc.AddTask(rest[0], service.AddTaskOptions{
		Title:   strings.Join(rest[1:], " "),
		Status:  plan.Status(*status),
		Body:    *body,
		Parent:  *parent,
		Before:  *before,
		Section: sectionPath,
		IfMatch: *ifMatch,
	})
	if err != nil {
		return err
	}

	fprintln(out, "added task", taskID)
	fprintln(out, "etag:", etag)

	return nil
}
