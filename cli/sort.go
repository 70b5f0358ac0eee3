package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sbezverk/parsort/config"
	"github.com/sbezverk/parsort/feeder"
	"github.com/sbezverk/parsort/feeder/offline_feeder"
	"github.com/sbezverk/parsort/feeder/text_feeder"
	"github.com/sbezverk/parsort/query"
	"github.com/sbezverk/parsort/sort"
	"github.com/sbezverk/parsort/values"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/types/known/structpb"
)

// ValidInputFormats defines the allowed input formats.
var ValidInputFormats = []string{"text", "records"}

// ValidOrders defines the orders the sort command knows.
var ValidOrders = map[string]sort.CompareFunc[*structpb.Value]{
	"asc":  values.Compare,
	"desc": values.Reverse,
}

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	Threads     int
	MaxThreads  int
	Workers     int
	Order       string
	InputFormat string
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort values read from a file or stdin",
		Long: `Sort values read from a file, or from stdin when no file is given, and
print them one per line.

With --input-format text every non blank line is a value: null, true, false,
a number, or else a string. With --input-format records the input is a stream
of protobuf encoded values, each prefixed with its 4 byte big endian length.

Example:
  parsort sort --threads 4 --order desc values.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(opts, cmd, args)
		},
	}

	addSortFlags(cmd.Flags(), opts)

	return cmd
}

func addSortFlags(fs *pflag.FlagSet, opts *SortOptions) {
	fs.IntVarP(&opts.Threads, "threads", "t", config.DefaultThreads, "threads to sort with, the calling one included")
	fs.IntVar(&opts.MaxThreads, "max-threads", 0, "largest accepted --threads, 0 for no limit")
	fs.IntVar(&opts.Workers, "workers", 0, "worker slots, 0 for GOMAXPROCS")
	fs.StringVar(&opts.Order, "order", "asc", "sort order (asc|desc)")
	fs.StringVar(&opts.InputFormat, "input-format", "text", "input format (text|records)")
}

// applyFlags overrides cfg with the flags set on the command line.
func (o *SortOptions) applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("threads") {
		cfg.Threads = o.Threads
	}
	if fs.Changed("max-threads") {
		cfg.MaxThreads = o.MaxThreads
	}
	if fs.Changed("workers") {
		cfg.Workers = o.Workers
	}
}

func runSort(opts *SortOptions, cmd *cobra.Command, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	opts.applyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	cmp, ok := ValidOrders[opts.Order]
	if !ok {
		return fmt.Errorf("invalid order %q: must be asc or desc", opts.Order)
	}
	if !isValidInputFormat(opts.InputFormat) {
		return fmt.Errorf("invalid input format %q: must be one of %v", opts.InputFormat, ValidInputFormats)
	}

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s with error: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	q := &query.Query[*structpb.Value]{
		Threads:    cfg.Threads,
		MaxThreads: cfg.MaxThreads,
		Compare:    cmp,
		Pool:       sort.NewPool(cfg.Workers),
	}
	sorted, err := q.ExecuteFeed(newFeeder(opts.InputFormat, in))
	if err != nil {
		return err
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	for _, v := range sorted {
		fmt.Fprintln(w, values.Format(v))
	}
	return w.Flush()
}

func newFeeder(format string, in io.Reader) feeder.Feeder[*structpb.Value] {
	if format == "records" {
		return offline_feeder.New(in, values.DecodeRecord)
	}
	return text_feeder.New(in, values.ParseLine)
}

func isValidInputFormat(format string) bool {
	for _, f := range ValidInputFormats {
		if f == format {
			return true
		}
	}
	return false
}
