//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI binary with the given arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Fetch downloads iNaturalist observations into the species cache.
func Fetch() error {
	mg.Deps(Build, Init)
	return run("fetch")
}

// Compile consolidates the species cache into the observation snapshot.
func Compile() error {
	mg.Deps(Build, Init)
	return run("compile")
}

// Report builds the snapshot report for the current season.
func Report() error {
	mg.Deps(Build, Init)
	return run("report", "--now")
}

// Pipeline runs fetch, compile, and report in sequence.
func Pipeline() error {
	mg.SerialDeps(Fetch, Compile, Report)
	return nil
}
