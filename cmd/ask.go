package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boothworks/voterscan/internal/qa"
	"github.com/boothworks/voterscan/internal/session"
	anthropicpkg "github.com/boothworks/voterscan/pkg/anthropic"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the extracted voter list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		coord, st, err := initCoordinator(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sess := coord.Snapshot()
		if sess.Stage != session.StageExtracted {
			return eris.New("no extracted records in the session; run extract first")
		}

		controller := qa.New(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		log, ok := controller.Ask(ctx, args[0], sess.Records, sess.ChatLog)
		if err := coord.SetChatLog(ctx, log); err != nil {
			return err
		}

		answer := log[len(log)-1]
		fmt.Println(answer.Text)
		for _, v := range answer.Voters {
			fmt.Printf("  %s  %s  %s  %s of %s  house %s  age %d  %s\n",
				v.SerialNumber, v.VoterID, v.Name, v.RelationType, v.RelationName, v.HouseNumber, v.Age, v.Gender)
		}
		if !ok {
			return eris.New("question was not answered")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
