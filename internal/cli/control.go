package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/automation"
	"github.com/tessro/autumn/internal/core"
	"github.com/tessro/autumn/internal/playback"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle",
	Aliases: []string{"pp", "play-pause"},
	Short:   "Toggle play/pause",
	Long:    `Toggle playback, then report whether the player is now playing.`,
	RunE:    runToggle,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	RunE:  runSkip(playback.CmdNext, func(s automation.Scripts) string { return s.NextTrack }),
}

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"previous"},
	Short:   "Go to previous track",
	RunE:    runSkip(playback.CmdPrevious, func(s automation.Scripts) string { return s.PreviousTrack }),
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	state, err := awaitState(cmd.Context(), cfg, func(s *session) {
		s.controller.TogglePlayPause()
	})
	if err != nil {
		return err
	}
	if state.LastError != nil {
		return state.LastError
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"status":     state.Phase.String(),
			"is_playing": state.IsPlaying,
		})
	}

	if state.IsPlaying {
		fmt.Println(paint(playingStyle, "▶ Playing"))
	} else {
		fmt.Println(paint(pausedStyle, "⏸ Paused"))
	}
	return nil
}

func runSkip(name string, script func(automation.Scripts) string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		res, err := awaitResult(cmd.Context(), cfg, name, script)
		if err != nil {
			return err
		}
		if !res.OK() {
			return res.Err
		}

		if JSONOutput() {
			return printJSON(map[string]string{"status": name})
		}
		if name == playback.CmdNext {
			fmt.Println("⏭ Next track")
		} else {
			fmt.Println("⏮ Previous track")
		}
		return nil
	}
}

// statusLine renders a NowPlayingView as one line.
func statusLine(v core.NowPlayingView) string {
	button := paint(buttonStyle, v.Button)
	if v.Track == "" {
		return button
	}
	return button + " " + v.Track
}
