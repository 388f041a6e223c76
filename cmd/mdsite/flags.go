package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// errHelp is returned by parsers when -h or --help was given.
var errHelp = flag.ErrHelp

// defaultConfigName is searched when --config is not given. Missing it is
// not an error.
const defaultConfigName = "config"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common     commonFlags
	output     string
	workers    int
	theme      string
	class      string
	engine     string
	date       string
	assetPath  string
	force      bool
	noProgress bool

	// changed reports whether a flag was given on the command line, so that
	// an explicit empty value still overrides config and environment.
	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", defaultConfigName, "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show config, nodes and timing")
}

// parseBuildFlags parses build flags and returns the positional arguments.
// Usage goes to w on error or --help.
func parseBuildFlags(args []string, w io.Writer) (*buildFlags, []string, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printBuildUsage(w) }

	f := &buildFlags{}
	addCommonFlags(fs, &f.common)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.theme, "theme", "t", "", "style name or path to a .css file")
	fs.StringVar(&f.class, "class", "", "class attribute applied to every tag")
	fs.StringVar(&f.engine, "engine", "", "markdown engine: native, goldmark")
	fs.StringVar(&f.date, "date", "", "page date: literal, auto[:FORMAT] or mtime[:FORMAT]")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with styles/ and templates/ overrides")
	fs.BoolVarP(&f.force, "force", "f", false, "rebuild unchanged documents")
	fs.BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.changed = fs.Changed

	return f, fs.Args(), nil
}

// set reports whether name was given on the command line.
func (f *buildFlags) set(name string) bool {
	return f.changed != nil && f.changed(name)
}
