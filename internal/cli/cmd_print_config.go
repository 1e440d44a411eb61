package cli

import (
	"io"

	"github.com/calvinalkan/planmd/internal/config"
	"github.com/calvinalkan/planmd/internal/store"
)

func cmdPrintConfig(out io.Writer, cfg config.Config, sources config.Sources, st *store.Store) error {
	fprintln(out, "root_dir:", cfg.RootDir)
	fprintln(out, "docs_dir:", cfg.DocsDir)
	fprintln(out, "resolved root:", st.Root())
	fprintln(out, "resolved docs:", st.DocsDir())

	if sources.File != "" {
		fprintln(out, "config file:", sources.File)
	} else {
		fprintln(out, "config file: (defaults)")
	}

	return nil
}
