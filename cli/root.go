package cli

import (
	goflag "flag"

	"github.com/sbezverk/parsort/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
}

// NewRootCommand creates the root command of the parsort CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "parsort",
		Short: "Stable parallel merge sort",
		Long: `Sort values with a stable merge sort whose halves are sorted by worker
goroutines, bounded by a thread budget. Values are read from files or stdin,
or sent to the gRPC sort service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog logs an error on every line until the Go flag set is
			// parsed, its flags are already set through cobra.
			return goflag.CommandLine.Parse([]string{})
		},
	}

	// Global flags, glog ones included
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// loadConfig returns the configuration file named by --config, or the defaults.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(o.ConfigFile)
}
