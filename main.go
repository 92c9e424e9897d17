// Package main provides the smooth-edges command, which rebuilds the alpha
// edges of an image and its hover variant as clean round or sharp silhouettes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"smooth-edges/internal/batch"
	"smooth-edges/internal/mask"
	"smooth-edges/internal/version"
)

const appName = "smooth-edges"

// errUsage marks argument errors that should print the usage line.
var errUsage = errors.New("usage error")

// cliArgs is the parsed command line.
type cliArgs struct {
	opts    batch.Options
	verbose bool
	version bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Usage: %s [--mode round|sharp] [--test] [-v] <name> <directory> [strength]\n", appName)
		}
		return 2
	}

	if cli.version {
		fmt.Fprintf(stdout, "%s %s (commit %s, built %s)\n", appName, version.Version, version.GitCommit, version.BuildTime)
		return 0
	}

	job, err := batch.Plan(cli.opts, stdin, stdout)
	switch {
	case errors.Is(err, batch.ErrDirectoryNotFound):
		fmt.Fprintf(stdout, "Folder '%s' not found\n", cli.opts.Dir)
		return 1
	case errors.Is(err, batch.ErrNoFiles):
		fmt.Fprintln(stdout, "No matching files found")
		return 1
	case errors.Is(err, batch.ErrCancelled):
		fmt.Fprintln(stdout, "Cancelled")
		return 0
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	proc := batch.NewProcessor(stdout)
	proc.Verbose = cli.verbose

	summary, err := proc.Run(job)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if n := summary.Failed(); n > 0 {
		log.Printf("%d of %d files failed", n, len(summary.Results))
	}
	return 0
}

// parseArgs reads "[flags] name directory [strength]". Flags may also appear
// between or after the positionals.
func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	mode := mask.ModeRound
	fs.Var(&mode, "mode", "round = curved, sharp = angled")
	test := fs.Bool("test", false, "Test mode: create and process _test copies automatically")
	verbose := fs.Bool("v", false, "Print alpha statistics for each file")
	showVersion := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [options] <name> <directory> [strength]\n\n", appName)
		fmt.Fprintf(fs.Output(), "Smooths the edges of <name>.png and <name>-hover.png in <directory>.\n")
		fmt.Fprintf(fs.Output(), "Default strength is %d for round and %d for sharp.\n\n",
			mask.DefaultStrength(mask.ModeRound), mask.DefaultStrength(mask.ModeSharp))
		fs.PrintDefaults()
	}

	// flag stops at the first positional, so parse again after each one
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return cliArgs{}, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if *showVersion {
		return cliArgs{version: true}, nil
	}

	if len(positional) < 2 || len(positional) > 3 {
		return cliArgs{}, fmt.Errorf("%w: expected <name> <directory> [strength], got %d arguments", errUsage, len(positional))
	}

	params := mask.DefaultParams(mode)
	if len(positional) == 3 {
		n, err := strconv.Atoi(positional[2])
		if err != nil {
			return cliArgs{}, fmt.Errorf("%w: strength must be an integer, got %q", errUsage, positional[2])
		}
		params = params.WithStrength(n)
	}
	if err := params.Validate(); err != nil {
		return cliArgs{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	return cliArgs{
		opts: batch.Options{
			Name:   positional[0],
			Dir:    positional[1],
			Params: params,
			Test:   *test,
		},
		verbose: *verbose,
	}, nil
}
