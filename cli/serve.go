package cli

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/sbezverk/parsort"
	"github.com/sbezverk/parsort/sort_service"
	"github.com/spf13/cobra"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Address string
	Workers int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC sort service",
		Long: `Run the gRPC sort service until SIGINT or SIGTERM is received.

The service exposes /parsort.Sorter/Sort. Requests and replies are
google.protobuf.Struct messages; a request carries "values" (a list) and
optionally "threads" and "order" (asc or desc).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Address, "address", "", "address to listen on, overrides the configuration file")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "worker slots shared by all requests, 0 for GOMAXPROCS")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("address") {
		cfg.Address = opts.Address
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.Workers
	}
	srv, err := sort_service.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start the sort service with error: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sort service listening on %s\n", srv.Addr())

	ctx, stop := parsort.ShutdownContext(cmd.Context())
	defer stop()
	<-ctx.Done()
	glog.Info("stopping the sort service")
	srv.Stop()

	return nil
}
