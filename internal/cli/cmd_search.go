package cli

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/service"
)

const searchHelp = `  search <plan> <query>  Search tasks by title substring`

func cmdSearch(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, searchHelp)
		fprintln(out, "\nFlags:\n  --status <s>   Only todo, doing, or done tasks\n  --limit <n>    Max results (1-500, default 50)")

		return nil
	}

	flagSet := flag.NewFlagSet("search", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	status := flagSet.String("status", "", "Status filter")
	limit := flagSet.Int("limit", 0, "Result limit")

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

	query := ""
	if len(rest) > 1 {
		query = rest[1]
	}

	matches, err := svc.SearchTasks(rest[0], query, plan.Status(*status), *limit)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fprintln(out, "no matches")

		return nil
	}

	for _, t := range matches {
		fprintf(out, "%s\t%s\t%s\n", t.ID, string(t.Status), t.Title)
	}

	return nil
}
