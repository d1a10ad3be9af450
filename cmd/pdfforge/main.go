// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfforge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is the process-wide diagnostic logger, configured in
// PersistentPreRun once flags are parsed.
var logger zerolog.Logger

// rootCmd is the base command for the pdfforge CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfforge",
	Short: "Batch PDF-to-Markdown preparation for ML pipelines",
	Long: `pdfforge prepares PDF documents for machine-learning consumption by
converting them to Markdown with the marker engine. Documents above a page
threshold are first split into page-bounded parts so the converter never
sees an oversized input; outputs can be packaged into a single zip.

Each operation is a subcommand: convert processes a file or directory,
split partitions a large PDF without converting it, and report summarizes
a recorded run manifest.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfforge.yaml or ~/.config/pdfforge/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfforge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfforge"))
		}
	}

	viper.SetEnvPrefix("PDFFORGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
