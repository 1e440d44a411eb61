package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/service"
)

const lsHelp = `  ls                     List plans`

func cmdLs(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, lsHelp)
		fprintln(out, "\nFlags:\n  --filter <s>   Case-insensitive substring over id and title")

		return nil
	}

	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	filter := flagSet.String("filter", "", "Substring filter")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	summaries, err := svc.ListPlans(*filter)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fprintln(out, "no plans")

		return nil
	}

	for _, s := range summaries {
		if s.Invalid {
			fprintf(out, "%s\t[invalid]\n", s.ID)

			continue
		}

		fprintf(out, "%s\t%s\ttodo=%d doing=%d done=%d\n",
			s.ID, s.Title,
			s.TaskCounts[plan.StatusTodo],
			s.TaskCounts[plan.StatusDoing],
			s.TaskCounts[plan.StatusDone])
	}

	return nil
}
