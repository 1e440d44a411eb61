package cli

import (
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/planmd/internal/service"
)

const showHelp = `  show <id>              Show a plan's tasks`

func cmdShow(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, showHelp)
		fprintln(out, "\nFlags:\n  --flat     Flat task list instead of a tree\n  --bodies   Include task and document bodies")

		return nil
	}

	flagSet := flag.NewFlagSet("show", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	flat := flagSet.Bool("flat", false, "Flat task list")
	bodies := flagSet.Bool("bodies", false, "Include bodies")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return errPlanIDRequired
	}

	view := service.ViewTree
	if *flat {
		view = service.ViewFlat
	}

	pv, err := svc.GetPlan(rest[0], service.GetPlanOptions{View: view, IncludeBodies: *bodies})
	if err != nil {
		return err
	}

	fprintf(out, "%s  (etag %s)\n", pv.Title, pv.Etag)

	if pv.Body != "" {
		fprintln(out, indentBlock(pv.Body, "  "))
	}

	printTasks(out, pv.Tasks, 0, *flat)

	return nil
}

func printTasks(out io.Writer, tasks []service.TaskView, depth int, flat bool) {
	for _, t := range tasks {
		sym, _ := t.Status.Symbol()

		pad := strings.Repeat("  ", depth)
		fprintf(out, "%s- [%c] %s  (%s)\n", pad, sym, t.Title, t.ID)

		if t.Body != "" {
			fprintln(out, indentBlock(t.Body, pad+"    "))
		}

		if !flat {
			printTasks(out, t.Children, depth+1, false)
		}
	}
}

func indentBlock(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}

	return strings.Join(lines, "\n")
}
