package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Polls the player once and prints the now-playing line the widget would show.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	App   string              `json:"app"`
	State core.PlaybackState  `json:"state"`
	View  core.NowPlayingView `json:"view"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	state, err := awaitState(cmd.Context(), cfg, func(s *session) {
		s.controller.Poll()
	})
	if err != nil {
		return err
	}
	if state.LastError != nil {
		return state.LastError
	}

	if JSONOutput() {
		return printJSON(statusOutput{App: cfg.Player.App, State: state, View: state.View()})
	}

	fmt.Println(statusLine(state.View()))
	if Verbose() {
		fmt.Println(paint(dimStyle, fmt.Sprintf("%s · %s", cfg.Player.App, state.Phase)))
	}
	return nil
}
