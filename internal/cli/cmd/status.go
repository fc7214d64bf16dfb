package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/runner"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/checkpoint"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last acquisition manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		m, err := runner.LoadManifest(cfg)
		if errors.Is(err, checkpoint.ErrNoManifest) {
			color.Yellow("No acquisition has been recorded yet (%s)", cfg.Paths.Manifest)
			return nil
		}
		if err != nil {
			return err
		}

		label := color.New(color.FgGreen)
		label.Print("Run:         ")
		fmt.Println(m.RunID)
		label.Print("Saved:       ")
		fmt.Println(m.SavedAt.Format("2006-01-02 15:04:05"))
		label.Print("State:       ")
		if m.State == "complete" {
			color.Green("%s", m.State)
		} else {
			color.Red("%s", m.State)
		}
		if s := m.Statistics; s != nil {
			label.Print("Descriptors: ")
			fmt.Println(s.Descriptors)
			label.Print("Placed:      ")
			fmt.Println(s.Placed)
			label.Print("Duplicates:  ")
			fmt.Println(s.Duplicates)
			label.Print("Ignored:     ")
			fmt.Println(s.Ignored)
			label.Print("Failures:    ")
			fmt.Println(s.Failures)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
