package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// previewEnabled reports whether colour swatches should be printed. An explicit
// --preview flag wins; otherwise swatches are shown when output is a terminal.
func previewEnabled(cmd *cobra.Command, flagValue bool) bool {
	if cmd.Flags().Changed("preview") {
		return flagValue
	}

	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}
