// Command kathe correlates ingested file artifacts by ssdeep similarity,
// storing the resulting index in a sorted-set-capable key-value store.
// Named after Katherine Johnson of NASA fame.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kathe",
		Short: "kathe correlates inputs based on ssdeep similarity",
		Long: `kathe is a tool to correlate inputs based on ssdeep similarity.

TSV fields: "inputname" "md5" "sha1" "sha256" "ssdeep" "context[,context,...]"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newHashCmd(), newIndexCmd())
	return root
}
