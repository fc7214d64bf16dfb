package cmd

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Build metadata, injected by the main package.
var (
	Version   string
	GitCommit string
	BuildDate string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		title := color.New(color.FgCyan, color.Bold)
		label := color.New(color.FgGreen)

		title.Printf("prf-pipeline %s\n\n", orDefault(Version, "dev"))
		for _, kv := range versionInfo() {
			label.Printf("%-12s", kv[0]+":")
			fmt.Println(kv[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionInfo() [][2]string {
	return [][2]string{
		{"Git commit", orDefault(GitCommit, "unknown")},
		{"Built", orDefault(BuildDate, "unknown")},
		{"Go version", runtime.Version()},
		{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// SetVersionInfo sets the version information from the main package
func SetVersionInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
