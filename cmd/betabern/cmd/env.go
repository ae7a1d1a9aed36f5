package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// applyEnvDefaults overrides the default value of every flag that was not
// set on the command line with the matching BETABERN_* environment
// variable, if there is one. "--monitor-port" maps to
// "BETABERN_MONITOR_PORT".
func applyEnvDefaults(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}

		evName := "BETABERN_" +
			strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		evValue, exist := os.LookupEnv(evName)
		if !exist {
			return
		}

		_ = flags.Set(f.Name, evValue)
	})
}
