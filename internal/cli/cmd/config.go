package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

// showCmd prints the effective configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := renderConfig(cfg)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showCmd)
}

// renderConfig marshals cfg to YAML with the store credentials masked.
func renderConfig(cfg *config.Config) (string, error) {
	masked := *cfg
	if masked.Store.DSN != "" {
		masked.Store.DSN = "********"
	}
	data, err := yaml.Marshal(masked)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}
