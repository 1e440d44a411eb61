package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/service"
)

const createHelp = `  create <id>            Create a new plan document`

var errPlanIDRequired = errors.New("plan id is required")

func cmdCreate(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, createHelp)
		fprintln(out, "\nFlags:\n  --title <text>   Plan title (defaults to a placeholder)\n  --body <text>    Document body markdown")

		return nil
	}

	flagSet := flag.NewFlagSet("create", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	title := flagSet.String("title", "", "Plan title")
	body := flagSet.String("body", "", "Document body markdown")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return errPlanIDRequired
	}

	etag, err := svc.CreatePlan(rest[0], *title, *body)
	if err != nil {
		return err
	}

	fprintln(out, "created plan", rest[0])
	fprintln(out, "etag:", etag)

	return nil
}
