package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/config"
)

var (
	// Set via ldflags at build time
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildDate   string `json:"build_date"`
	Modified    bool   `json:"modified,omitempty"`
	GoVersion   string `json:"go_version"`
	Platform    string `json:"platform"`
	Player      string `json:"player,omitempty"`
	Interpreter string `json:"interpreter,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		bi, _ := debug.ReadBuildInfo()
		info := buildVersionInfo(bi, Config())

		if JSONOutput() {
			_ = printJSON(info)
			return
		}

		fmt.Printf("autumn %s\n", info.Version)
		if Verbose() {
			commit := info.Commit
			if info.Modified {
				commit += " (modified)"
			}
			fmt.Printf("  commit:      %s\n", commit)
			fmt.Printf("  built:       %s\n", info.BuildDate)
			fmt.Printf("  go version:  %s\n", info.GoVersion)
			fmt.Printf("  platform:    %s\n", info.Platform)
			if info.Player != "" {
				fmt.Printf("  player:      %s via %s\n", info.Player, info.Interpreter)
			}
		}
	},
}

// buildVersionInfo prefers ldflags values and falls back to the module and
// VCS stamps the toolchain embeds in `go install` builds.
func buildVersionInfo(bi *debug.BuildInfo, c *config.Config) versionInfo {
	info := versionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if c != nil {
		info.Player = c.Player.App
		info.Interpreter = c.Player.Interpreter
	}
	if bi == nil {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
				if len(info.Commit) > 12 {
					info.Commit = info.Commit[:12]
				}
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
