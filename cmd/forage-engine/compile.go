package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenmtn/forage-engine/internal/compile"
	"github.com/greenmtn/forage-engine/internal/snapshot"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Consolidate the species cache into the observation snapshot",
	Long: `Compile reads every per-species cache file, flattens the raw observations,
applies the per-species filter policies, deduplicates, and writes the result
to the snapshot database. The snapshot is replaced wholesale on each run.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("cache-dir", "", "directory of per-species cache files")
	compileCmd.Flags().String("snapshot", "", "snapshot database file to write")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	if cacheDir == "" {
		cacheDir = viper.GetString("cache_dir")
	}
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	if snapshotPath == "" {
		snapshotPath = viper.GetString("snapshot_path")
	}

	master, err := compile.Compile(cacheDir, os.Stdout)
	if err != nil {
		return err
	}

	store, err := snapshot.Open(snapshotPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Write(master); err != nil {
		return err
	}

	var total int
	for _, obs := range master {
		total += len(obs)
	}
	fmt.Fprintf(os.Stdout, "Snapshot written: %d species, %d observations -> %s\n",
		len(master), total, snapshotPath)
	return nil
}
