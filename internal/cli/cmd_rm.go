package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/service"
)

const rmHelp = `  rm <plan> <task>       Delete a task and everything nested under it`

var errTaskIDRequired = errors.New("task id is required")

func cmdRm(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, rmHelp)
		fprintln(out, "\nFlags:\n  --if-match <etag>  Abort if the document changed since this etag")

		return nil
	}

	flagSet := flag.NewFlagSet("rm", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	ifMatch := flagSet.String("if-match", "", "Expected etag")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return errPlanIDRequired
	}

	if len(rest) < 2 {
		return errTaskIDRequired
	}

	etag, err := svc.DeleteTask(rest[0], rest[1], *ifMatch)
	if err != nil {
		return err
	}

	fprintln(out, "etag:", etag)

	return nil
}
