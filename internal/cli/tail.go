package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/tail"
	"github.com/tessro/autumn/internal/uiloop"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Poll the player and print changes as they happen.

Events tracked:
  - Track changes
  - Pause/Resume
  - Errors talking to the player, and recovery`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	tmpl, err := tail.WithTemplate(tailFormat)
	if err != nil {
		return errors.Wrap(err, "invalid --format")
	}
	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tmpl,
	)

	ctx := cmd.Context()
	loop := uiloop.New()
	s := newSession(ctx, cfg, newRunner(cfg), loop)
	defer s.Close()

	watcher := tail.NewWatcher(32)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for e := range watcher.Events() {
			printEvent(formatter, e)
		}
	}()

	// Run executes tasks on this goroutine, so stop needs no locking.
	var stop func()
	loop.Post(func() {
		s.controller.Subscribe(watcher.Observe)
		stop = s.controller.Start()
	})

	err = loop.Run(ctx)
	if stop != nil {
		stop()
	}
	watcher.Close()
	<-printed

	if ctx.Err() != nil {
		return nil
	}
	return err
}

func printEvent(f *tail.Formatter, e tail.Event) {
	if JSONOutput() {
		b, err := tail.JSON(e)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Println(string(b))
		return
	}
	fmt.Println(f.Format(e))
}
