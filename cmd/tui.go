package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boothworks/voterscan/internal/extract"
	"github.com/boothworks/voterscan/internal/qa"
	"github.com/boothworks/voterscan/internal/tui"
	anthropicpkg "github.com/boothworks/voterscan/pkg/anthropic"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func runTUI(cmd *cobra.Command) error {
	coord, st, err := initCoordinator(cmd)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	client := anthropicpkg.NewClient(cfg.Anthropic.Key)
	m := tui.New(coord,
		extract.New(client, cfg.Anthropic),
		qa.New(client, cfg.Anthropic),
		*cfg,
	)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return eris.Wrap(err, "run tui")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
