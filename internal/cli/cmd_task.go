package cli

import (
	"io"
	"strings"

	"github.com/calvinalkan/planmd/internal/service"
)

const taskHelp = `  task <plan> [<task>]   Show one task (default: the current target)`

func cmdTask(out io.Writer, svc *service.Service, args []string) error {
	if hasHelpFlag(args) {
		fprintln(out, taskHelp)

		return nil
	}

	if len(args) == 0 {
		return errPlanIDRequired
	}

	taskID := ""
	if len(args) > 1 {
		taskID = args[1]
	}

	tv, etag, err := svc.GetTask(args[0], taskID)
	if err != nil {
		return err
	}

	fprintln(out, "id:", tv.ID)
	fprintln(out, "title:", tv.Title)
	fprintln(out, "status:", string(tv.Status))

	if len(tv.SectionPath) > 0 {
		fprintln(out, "section:", strings.Join(tv.SectionPath, " / "))
	}

	if tv.ParentID != "" {
		fprintln(out, "parent:", tv.ParentID)
	}

	if tv.HasBody {
		fprintln(out, "body:")
		fprintln(out, indentBlock(tv.Body, "  "))
	}

	fprintln(out, "etag:", etag)

	return nil
}
