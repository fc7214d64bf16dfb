package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/config"
	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/runner"
	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/utils"
)

var (
	cfgFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "prf-pipeline",
		Short: "PRF traffic accident open data pipeline",
		Long: color.CyanString(`PRF traffic accident open data pipeline

Downloads the PRF accident archives, files them per dataset and loads them
through the raw (bronze), cleaned (silver) and published (gold) tiers.`),
		SilenceUsage: true,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./prf.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if utils.FileExists("prf.yaml") {
		viper.SetConfigFile("prf.yaml")
	}

	if viper.ConfigFileUsed() == "" {
		return
	}
	if err := viper.ReadInConfig(); err != nil {
		color.Red("Failed to read config file %s: %v", viper.ConfigFileUsed(), err)
		return
	}
	if verbose {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the configuration and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if err := runner.ConfigureLogging(cfg.Log, verbose); err != nil {
		return nil, err
	}
	return cfg, nil
}
