package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/automation"
	"github.com/tessro/autumn/internal/config"
	autumnerrors "github.com/tessro/autumn/internal/errors"
	"github.com/tessro/autumn/internal/weather"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that autumn can reach the player and the weather",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type check struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checks := runChecks(cmd.Context(), cfg, newRunner(cfg))

	if JSONOutput() {
		return printJSON(checks)
	}

	t := NewTable("", "CHECK", "DETAIL")
	for _, c := range checks {
		icon := StatusIcon(c.OK)
		if c.OK {
			icon = paint(playingStyle, icon)
		} else {
			icon = paint(errorStyle, icon)
		}
		t.Row(icon, c.Name, c.Detail)
	}
	t.Flush()

	for _, c := range checks {
		if !c.OK && c.Suggestion != "" {
			fmt.Printf("\n%s: %s", c.Name, c.Suggestion)
		}
	}
	fmt.Println()
	return nil
}

func runChecks(ctx context.Context, c *config.Config, runner automation.Runner) []check {
	var checks []check
	add := func(name string, err error, detail string) {
		ch := check{Name: name, OK: err == nil, Detail: detail}
		if err != nil {
			ch.Detail = err.Error()
			ch.Suggestion = autumnerrors.GetSuggestion(err)
		}
		checks = append(checks, ch)
	}

	path := config.Path()
	if path == "" {
		path = "(defaults)"
	}
	add("config", nil, path)

	if er, ok := runner.(*automation.ExecRunner); ok {
		if !er.Available() {
			add("interpreter", errors.Mark(errors.Newf("%s not found on PATH", er.Interpreter), autumnerrors.ErrInterpreterNotFound), "")
			return checks
		}
		add("interpreter", nil, er.Interpreter)
	}

	qctx, cancel := context.WithTimeout(ctx, commandTimeout(c))
	defer cancel()
	out, err := runner.Execute(qctx, newScripts(c).PlayerState)
	switch {
	case err != nil:
		add(c.Player.App, err, "")
	case out.ExitCode != 0:
		add(c.Player.App, autumnerrors.FromStderr(out.Stderr), "")
	default:
		add(c.Player.App, nil, "player state: "+out.Stdout)
	}

	if c.Weather.Disabled {
		add("weather", nil, "disabled")
		return checks
	}
	if c.Weather.APIKey == "" {
		add("weather", autumnerrors.ErrWeatherKeyMissing, "")
		return checks
	}

	wctx, wcancel := context.WithTimeout(ctx, 3*time.Duration(c.Weather.Timeout)*time.Second)
	defer wcancel()
	report, err := newWeatherService(c).Report(wctx)
	if err != nil {
		add("weather", err, "")
	} else {
		add("weather", nil, report.Summary()+locationNote(report.Location))
	}
	return checks
}

func locationNote(l weather.Location) string {
	if l.Source == "fallback" {
		return " (location lookup failed)"
	}
	return ""
}
