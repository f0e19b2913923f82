package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/avuko/kathe-cli/internal/ingest"
	"github.com/avuko/kathe-cli/internal/sanitize"
)

func newHashCmd() *cobra.Command {
	var (
		filePath string
		context  string
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash a file and print a TSV record to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			contexts := sanitize.Contexts(context)

			if err := ingest.HashAndEmit(os.Stdout, filePath, contexts); err != nil {
				if errors.Is(err, ingest.ErrNotRegularFile) {
					os.Exit(1)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file-path", "f", "", "path to file to be hashed")
	cmd.Flags().StringVarP(&context, "context", "c", "", "list,of,contexts")
	cmd.MarkFlagRequired("file-path")
	cmd.MarkFlagRequired("context")

	return cmd
}
