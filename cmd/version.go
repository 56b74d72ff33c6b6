/* cmd/version.go */

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_cli"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_io"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/shared"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mkpass version",
	RunE: mkpass_cli.Wrap(func(rc *mkpass_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), shared.Version)
		return nil
	}),
}
