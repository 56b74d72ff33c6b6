// pkg/mkpass_cli/wrap.go

package mkpass_cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_io"
)

// Wrap adapts a RuntimeContext-aware handler into a cobra RunE, adding
// panic recovery, span lifecycle, and logger initialization.
func Wrap(fn func(rc *mkpass_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if logger.L() == nil {
			logger.InitFallback()
		}

		rc := mkpass_io.NewContext(context.Background(), cmd.Name())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		return fn(rc, cmd, args)
	}
}
