package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docsum/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [FILE]",
	Short: "Open the interactive summary browser",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.Close()

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		_, err = tea.NewProgram(tui.New(a.service, path), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
