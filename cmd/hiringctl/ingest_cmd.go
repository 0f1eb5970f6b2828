package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ogurasousui/hiring-insights/internal/adapters/source"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	"github.com/spf13/cobra"
)

func newIngestCmd(root *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "ingest --kind <employee|job|department> <path|s3://bucket/key>",
		Short: "Ingest one CSV file as a single all-or-nothing batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ingest.ParseKind(kind); err != nil {
				return withCode(exitUsage, err)
			}

			ctx, cfg, err := loadConfig(cmd.Context(), root)
			if err != nil {
				return err
			}

			src, err := source.NewOpener(cfg.S3.Region).Open(ctx, args[0])
			if err != nil {
				return withCode(exitUsage, err)
			}
			defer src.Close()

			a, err := openApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Ingest.Ingest(ctx, ingest.IngestInput{Kind: kind, Source: src})
			if err != nil {
				return withCode(ingestExitCode(err), err)
			}
			return writeIngestResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "entity kind: employee, job or department (required)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func writeIngestResult(w io.Writer, res *ingest.IngestResult) error {
	b, err := json.Marshal(map[string]int{res.Kind.Plural(): res.Count})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
