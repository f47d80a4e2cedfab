package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envKeys maps persistent flags to the environment variables that may set them.
var envKeys = map[string]string{
	"port":   "PORT",
	"config": "CONFIG_PATH",
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "survival-quiz",
		Short:         "Survival trivia quiz served over WebSocket",
		SilenceUsage:  true,
	}

	flags := cmd.PersistentFlags()
	flags.String("port", "", "port to listen on (overrides server.port)")
	flags.String("config", "config/config.yaml", "path to YAML config")

	bindFlags(v, flags)

	cmd.AddCommand(NewStartCmd(v))
	cmd.AddCommand(NewMigrateCmd(v))
	return cmd
}

// bindFlags lets viper resolve each flag as flag > env > default.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if env, ok := envKeys[f.Name]; ok {
			_ = v.BindEnv(f.Name, env)
		}
	})
}
