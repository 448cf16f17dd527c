package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boothworks/voterscan/internal/extract"
	"github.com/boothworks/voterscan/internal/ingest"
	anthropicpkg "github.com/boothworks/voterscan/pkg/anthropic"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Upload a scanned page and extract its voter records",
	Long:  "Ingests the document, replaces the current session document, runs extraction and prints a summary. The extracted records persist in the session for search, QA and export.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		coord, st, err := initCoordinator(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		doc, err := ingest.Ingest(args[0])
		if err != nil {
			return err
		}
		if err := coord.SetDocument(ctx, doc); err != nil {
			return err
		}

		gen, err := coord.BeginExtraction(ctx)
		if err != nil {
			return err
		}
		pipeline := extract.New(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)

		rs, err := pipeline.Run(ctx, doc)
		if err != nil {
			if _, ferr := coord.FailExtraction(ctx, gen, err.Error()); ferr != nil {
				return ferr
			}
			if extract.IsSchema(err) {
				return fmt.Errorf("extraction response failed validation: %w", err)
			}
			return err
		}

		if _, err := coord.CompleteExtraction(ctx, gen, rs); err != nil {
			return err
		}

		fmt.Printf("Extracted %s\n", doc.Name)
		fmt.Printf("  Assembly constituency:      %d %s\n", rs.ConstituencyInfo.Assembly.Number, rs.ConstituencyInfo.Assembly.Name)
		fmt.Printf("  Parliamentary constituency: %d %s\n", rs.ConstituencyInfo.Parliamentary.Number, rs.ConstituencyInfo.Parliamentary.Name)
		fmt.Printf("  Polling station:            part %d, %s\n", rs.PollingStationInfo.PartNumber, rs.PollingStationInfo.Name)
		fmt.Printf("  Voters:                     %d\n", len(rs.Voters))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
