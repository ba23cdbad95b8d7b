// Package commands implements the temporalctl CLI: a small surface over
// the core's restrict/simplify/aggregate operations for manual
// inspection and scripting.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/tlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	log    *tlog.Log
	policy config.Policy
)

var rootCmd = &cobra.Command{
	Use:   "temporalctl",
	Short: "Inspect and manipulate tempora's temporal value types",
	Long: `temporalctl is a small command-line surface over the tempora library:
restrict a sequence to a period or a single timestamp, simplify a
sequence, or aggregate a set of periods.

Examples:
  temporalctl simplify --tolerance 0.5 values.json
  temporalctl aggregate windows.json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = viper.ConfigFileUsed()
		}
		if path != "" {
			p, err := config.Load(path)
			if err != nil {
				return err
			}
			policy = p
		} else {
			policy = config.Defaults()
		}
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		log = tlog.NewText(level)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tempora.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("tempora")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "tempora: config error: %v\n", err)
		}
	}
}
