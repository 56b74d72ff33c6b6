// pkg/cli/cli.go
//
// Small cobra/viper helpers shared by the command tree. Flags registered
// through these helpers can be overridden by MKPASS_* environment variables
// or the optional config file once BindFlagsToViper is called.

package cli

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AddStringFlag adds a string flag.
func AddStringFlag(cmd *cobra.Command, name, shorthand, def, help string) {
	cmd.Flags().StringP(name, shorthand, def, help)
}

// AddBoolFlag adds a boolean flag.
func AddBoolFlag(cmd *cobra.Command, name, shorthand string, def bool, help string) {
	cmd.Flags().BoolP(name, shorthand, def, help)
}

// AddIntFlag adds an int flag.
func AddIntFlag(cmd *cobra.Command, name, shorthand string, def int, help string) {
	cmd.Flags().IntP(name, shorthand, def, help)
}

// AddStringArrayFlag adds a repeatable string flag.
func AddStringArrayFlag(cmd *cobra.Command, name, shorthand string, def []string, help string) {
	cmd.Flags().StringArrayP(name, shorthand, def, help)
}

// BindFlagsToViper binds all flags on a command to a Viper instance.
func BindFlagsToViper(cmd *cobra.Command, v *viper.Viper) error {
	var result error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// SetViperEnvPrefix lets Viper read env vars with the given prefix.
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}
