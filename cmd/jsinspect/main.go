// Command jsinspect prints the contents of a JavaSeis dataset.
//
// Every subcommand opens the dataset read-only.
//
//	jsinspect info   <dataset>
//	jsinspect header <dataset> <index>
//	jsinspect trace  <dataset> <index> [--limit n]
//	jsinspect fold   <dataset>
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arloliu/jseis"
	"github.com/arloliu/jseis/dataset"
	"github.com/spf13/cobra"
)

var flagMain struct {
	Verbose bool
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jsinspect",
		Short:         "Inspect JavaSeis trace datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&flagMain.Verbose, "verbose", "v", false, "Log dataset operations to stderr")

	cmd.AddCommand(
		newInfoCmd(),
		newHeaderCmd(),
		newTraceCmd(),
		newFoldCmd(),
	)

	return cmd
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDataset opens dir read-only, logging to stderr when --verbose is set.
func openDataset(cmd *cobra.Command, dir string) (*dataset.Dataset, error) {
	var w io.Writer = io.Discard
	if flagMain.Verbose {
		w = cmd.ErrOrStderr()
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return jseis.OpenReadOnly(dir, dataset.WithLogger(logger))
}
