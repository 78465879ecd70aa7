// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the afdb-harvester CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured by the root command's PersistentPreRunE and shared
// by every subcommand.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// rootCmd is the base command for the afdb-harvester CLI.
var rootCmd = &cobra.Command{
	Use:   "afdb-harvester",
	Short: "Harvest AlphaFold DB confidence scores into a local dataset",
	Long: `afdb-harvester builds a per-residue confidence dataset from the AlphaFold
Protein Structure Database. Given UniProt accessions it fetches prediction
metadata, downloads each predicted model file, extracts the per-residue
pLDDT scores, and accumulates the results into a local dataset that
resumes where the previous run stopped.

Each stage is a subcommand: collect runs the full harvest, query inspects
single accessions, parse extracts scores from a local model file, and
export dumps the dataset.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./afdb-harvester.yaml or ~/.config/afdb-harvester/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("afdb-harvester")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "afdb-harvester"))
		}
	}

	viper.SetEnvPrefix("AFDB_HARVESTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogging(cmd *cobra.Command) error {
	name := stringSetting(cmd, "log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("unknown log level %q: use debug, info, warn, or error", name)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// Settings resolve as: explicit flag > config file or environment > flag
// default.

func stringSetting(cmd *cobra.Command, name string) string {
	if !cmd.Flags().Changed(name) && viper.IsSet(name) {
		return viper.GetString(name)
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func intSetting(cmd *cobra.Command, name string) int {
	if !cmd.Flags().Changed(name) && viper.IsSet(name) {
		return viper.GetInt(name)
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func boolSetting(cmd *cobra.Command, name string) bool {
	if !cmd.Flags().Changed(name) && viper.IsSet(name) {
		return viper.GetBool(name)
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func durationSetting(cmd *cobra.Command, name string) time.Duration {
	if !cmd.Flags().Changed(name) && viper.IsSet(name) {
		return viper.GetDuration(name)
	}
	v, _ := cmd.Flags().GetDuration(name)
	return v
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
