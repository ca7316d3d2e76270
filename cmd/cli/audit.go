package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"contentguard/internal/audit"
	"contentguard/internal/ioformats"
)

func newAuditCmd(a *app) *cobra.Command {
	var (
		keywords string
		input    string
		format   string
		output   string
		titles   bool
	)
	cmd := &cobra.Command{
		Use:   "audit [keyword...]",
		Short: "Classify keywords as duplicate, similar or clear",
		Example: `  contentguard audit --keywords "how to create a website, wordpress hosting guide"
  contentguard audit --input keywords.csv --format csv --output audit.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "table", "csv", "ndjson":
			default:
				return fmt.Errorf("unknown format %q (want table, csv or ndjson)", format)
			}
			raw := append([]string{}, args...)
			if keywords != "" {
				raw = append(raw, audit.ParseKeywordList(keywords)...)
			}
			if input != "" {
				kws, err := ioformats.ReadKeywords(input)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				raw = append(raw, kws...)
			}

			if titles {
				a.cfg.EnrichTitles = true
			}
			svc := a.service()
			rep, err := svc.RunAudit(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if len(rep.Warnings) > 0 {
				a.log.Warnf("%d of %d sitemaps could not be fetched; results use a partial inventory", len(rep.Warnings), len(a.cfg.Sitemaps))
			}

			w, closeFn, err := openOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			defer closeFn()

			switch format {
			case "csv":
				return ioformats.WriteCSV(w, rep.Records)
			case "ndjson":
				return ioformats.WriteNDJSON(w, rep.Records)
			default:
				return ioformats.WriteTable(w, rep.Records)
			}
		},
	}
	cmd.Flags().StringVarP(&keywords, "keywords", "k", "", "comma separated keywords")
	cmd.Flags().StringVarP(&input, "input", "i", "", "keyword file (csv with 'keyword' column, ndjson, or text)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, csv or ndjson")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&titles, "live-titles", false, "fetch matched posts to report their published titles")
	return cmd
}

func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
