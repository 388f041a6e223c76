package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	mdsite "github.com/alnah/go-mdsite"
)

// Environment holds injectable dependencies for the CLI.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	AssetLoader mdsite.AssetLoader // nil = embedded assets or --asset-path
	IsTerminal  func(w io.Writer) bool
	// SetMaxProcs adjusts GOMAXPROCS before the pool is sized and returns
	// the undo function. Nil leaves the runtime untouched.
	SetMaxProcs func(verbose bool, w io.Writer) func()
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		IsTerminal:  isTerminal,
		SetMaxProcs: setMaxProcs,
	}
}

// setMaxProcs configures GOMAXPROCS from the container CPU quota, logging
// the adjustment in verbose mode.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) func() {
	logger := func(string, ...interface{}) {}
	if verbose {
		logger = func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}
	}
	undo, _ := maxprocs.Set(maxprocs.Logger(logger))
	return undo
}
