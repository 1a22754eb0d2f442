// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the forage-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the forage-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "forage-engine",
	Short: "Vermont edible plant observation pipeline",
	Long: `forage-engine builds a local picture of where edible plants grow in
Vermont. It downloads research-grade iNaturalist observations for a curated
species list, compiles them into a queryable snapshot, and answers seasonal
foraging queries over that snapshot.

Each pipeline stage is a subcommand: fetch downloads and caches raw
observations, compile consolidates the cache into a snapshot, query filters
the snapshot, and report renders a query result as HTML or CSV. The log and
coords subcommands manage the personal finds log and saved map bookmarks.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./forage-engine.yaml or ~/.config/forage-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("forage-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "forage-engine"))
		}
	}

	viper.SetEnvPrefix("FORAGE_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("cache_dir", "species_data")
	viper.SetDefault("snapshot_path", filepath.Join("snapshot", "observations.db"))
	viper.SetDefault("species_file", "vt_edibles.csv")
	viper.SetDefault("bookmarks_file", "saved_coords.csv")
	viper.SetDefault("finds_file", "my_finds.csv")
	viper.SetDefault("report_dir", "reports")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
