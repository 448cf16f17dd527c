package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boothworks/voterscan/internal/export"
	"github.com/boothworks/voterscan/internal/session"
)

var exportCmd = &cobra.Command{
	Use:   "export <out.xlsx>",
	Short: "Export the extracted records to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, st, err := initCoordinator(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sess := coord.Snapshot()
		if sess.Stage != session.StageExtracted {
			return eris.New("no extracted records in the session; run extract first")
		}

		if err := export.WriteXLSX(args[0], sess.Records); err != nil {
			return err
		}
		fmt.Printf("Wrote %d voters to %s\n", len(sess.Records.Voters), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
