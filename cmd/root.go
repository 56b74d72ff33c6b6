/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/diagnostics"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/entropy"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_cli"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_err"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_io"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/secrets"
)

var v = viper.New()

// RootCmd is the base command for mkpass.
var RootCmd = &cobra.Command{
	Use:   "mkpass",
	Short: "Generate randomized secrets from character-class specifications",
	Long: `mkpass generates randomized secrets (passwords, tokens) of a requested
length, drawn from caller-specified character classes, using bytes from an
external entropy stream.

Character-class specs accept ranges ("a-z" or "a..z"), backslash escapes,
and an optional "N:" prefix requiring N characters from that class:

  mkpass --length 16 --chars '2:0-9' --chars '1:!@#$%'`,
	SilenceUsage: true,
	RunE:         mkpass_cli.Wrap(runGenerate),
}

func init() {
	cli.AddIntFlag(RootCmd, "length", "l", 12, "Secret length in characters")
	cli.AddStringArrayFlag(RootCmd, "chars", "c", nil, "Character-class spec (repeatable); prefix with N: to require N chars")
	cli.AddBoolFlag(RootCmd, "no-default", "", false, "Suppress the built-in alphanumeric character class")
	cli.AddStringFlag(RootCmd, "entropy-source", "e", entropy.DefaultSource, "Entropy stream path, or - for stdin")
	cli.AddIntFlag(RootCmd, "fail-threshold", "", int(diagnostics.DefaultFailThreshold), "Severity (0-4) at or above which the run is flagged failed")
	cli.AddIntFlag(RootCmd, "count", "n", 1, "Number of secrets to generate")

	cli.SetViperEnvPrefix(v, "MKPASS")
	v.SetConfigName("mkpass")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/mkpass")
	}
}

func runGenerate(rc *mkpass_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	log := otelzap.Ctx(rc.Ctx)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !cerr.As(err, &notFound) {
			return cerr.Wrap(err, "read config file")
		}
	}
	if err := cli.BindFlagsToViper(cmd, v); err != nil {
		return cerr.Wrap(err, "bind flags")
	}

	length := v.GetInt("length")
	specs := v.GetStringSlice("chars")
	suppressDefault := v.GetBool("no-default")
	source := v.GetString("entropy-source")
	threshold := v.GetInt("fail-threshold")
	count := v.GetInt("count")

	if length < 1 {
		return mkpass_err.NewExpectedError(cerr.Newf("length must be positive, got %d", length))
	}
	if threshold < int(diagnostics.Info) || threshold > int(diagnostics.Fatal) {
		return mkpass_err.NewExpectedError(cerr.Newf("fail-threshold must be 0-4, got %d", threshold))
	}
	if count < 1 {
		return mkpass_err.NewExpectedError(cerr.Newf("count must be positive, got %d", count))
	}

	if source == entropy.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		log.Warn("Reading entropy from an interactive terminal; secrets will be as random as your typing")
	}

	failed := false
	for i := 0; i < count; i++ {
		// Each secret runs in its own session with its own entropy
		// handle; stdin sessions consume the shared process stream
		// sequentially.
		res := secrets.Generate(rc, secrets.Options{
			Length:          length,
			Specs:           specs,
			SuppressDefault: suppressDefault,
			EntropySource:   source,
			FailThreshold:   diagnostics.Severity(threshold),
		})

		// A failed run still prints whatever was assembled before the
		// diagnostics are reported; callers rely on seeing the
		// attempted output next to the failure report.
		if res.Secret != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Secret)
		}
		if res.Withheld {
			failed = true
			fmt.Fprint(cmd.ErrOrStderr(), diagnostics.FormatRecords(res.Diagnostics))
		}
	}

	if failed {
		return mkpass_err.NewExpectedError(cerr.Wrap(secrets.ErrNoSecret, "secret generation failed; see diagnostics"))
	}
	log.Info("Secrets generated", zap.Int("count", count), zap.Int("length", length))
	return nil
}

// Execute runs the root command and translates the outcome into a process
// exit code.
func Execute() {
	RootCmd.AddCommand(versionCmd)

	if err := RootCmd.Execute(); err != nil {
		if !mkpass_err.IsExpectedUserError(err) {
			logger.GetLogger().Error("CLI execution error", zap.Error(err))
		}
		os.Exit(mkpass_err.GetExitCode(err))
	}
}
