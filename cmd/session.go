package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the persisted session",
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the persisted session holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, st, err := initCoordinator(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sess := coord.Snapshot()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Stage:\t%s\n", sess.Stage)
		if sess.Document != nil {
			fmt.Fprintf(w, "Document:\t%s (%s)\n", sess.Document.Name, sess.Document.MimeType)
		} else {
			fmt.Fprintf(w, "Document:\tnone\n")
		}
		if sess.Records != nil {
			fmt.Fprintf(w, "Constituency:\t%d %s\n", sess.Records.ConstituencyInfo.Assembly.Number, sess.Records.ConstituencyInfo.Assembly.Name)
			fmt.Fprintf(w, "Polling station:\tpart %d, %s\n", sess.Records.PollingStationInfo.PartNumber, sess.Records.PollingStationInfo.Name)
			fmt.Fprintf(w, "Voters:\t%d\n", len(sess.Records.Voters))
		} else {
			fmt.Fprintf(w, "Records:\tnone\n")
		}
		fmt.Fprintf(w, "Chat messages:\t%d\n", len(sess.ChatLog))
		fmt.Fprintf(w, "Active view:\t%s\n", sess.ActiveView)
		if sess.LastError != "" {
			fmt.Fprintf(w, "Last error:\t%s\n", sess.LastError)
		}
		return w.Flush()
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, st, err := initCoordinator(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := coord.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Session cleared.")
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}
