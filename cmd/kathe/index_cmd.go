package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avuko/kathe-cli/internal/ingest"
	"github.com/avuko/kathe-cli/internal/store"
)

func newIndexCmd() *cobra.Command {
	var (
		// contextArg is required on this subcommand but unused: each TSV
		// record already carries its own context field, which is what
		// the Driver indexes. The reference tool requires --context
		// globally even in its TSV-ingest mode; that quirk is kept here
		// rather than silently dropped (see DESIGN.md).
		contextArg string
		tsvInput   bool
		filePath   string
		redisHost  string
		port       int
		dbNumber   int
		auth       string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index TSV records into the similarity store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tsvInput == (filePath != "") {
				return fmt.Errorf("exactly one of --tsv-input or --file-path is required")
			}

			var r *os.File
			if tsvInput {
				r = os.Stdin
			} else {
				f, err := os.Open(filePath)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			redisStore := store.Dial(redisHost, port, dbNumber, auth)
			defer redisStore.Close()

			ctx := context.Background()
			if err := redisStore.Client().Ping(ctx).Err(); err != nil {
				return fmt.Errorf("connect to store: %w", err)
			}

			logger := zerologIngestLogger{log: newLogger()}
			driver := ingest.NewDriver(redisStore, logger)
			return driver.Run(ctx, r)
		},
	}

	cmd.Flags().StringVarP(&contextArg, "context", "c", "", "list,of,contexts")
	cmd.Flags().BoolVarP(&tsvInput, "tsv-input", "i", false, "parse a TSV stream from stdin")
	cmd.Flags().StringVarP(&filePath, "file-path", "f", "", "path to a TSV file to index")
	cmd.Flags().StringVarP(&redisHost, "redishost", "r", "127.0.0.1", "redis host")
	cmd.Flags().IntVarP(&port, "port", "p", 6379, "redis port")
	cmd.Flags().IntVarP(&dbNumber, "dbnumber", "d", 7, "redis database number")
	cmd.Flags().StringVarP(&auth, "auth", "a", "redis", "redis auth password")
	cmd.MarkFlagRequired("context")

	return cmd
}
