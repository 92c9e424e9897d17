package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"smooth-edges/internal/mask"
)

// ErrCancelled is returned when the user does not confirm the overwrite.
var ErrCancelled = errors.New("cancelled")

// ConfirmPrompt is shown before overwriting originals.
const ConfirmPrompt = "\nOverwrite original files? Type 'yes': "

// Options is what the command line asks for.
type Options struct {
	Name   string
	Dir    string
	Params mask.Params
	Test   bool // work on _test copies and skip the prompt
}

// Job is a fully resolved batch: the files to rewrite, how to rewrite them,
// and whether writing was approved.
type Job struct {
	Paths     []string
	Params    mask.Params
	Confirmed bool
}

// Confirm asks the overwrite question on out and reads one answer line from in.
// Only "yes" in any letter case approves.
func Confirm(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, ConfirmPrompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	// EOF without a newline still counts as an answer; an empty one declines
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.TrimRight(line, "\r\n")
	return strings.EqualFold(answer, "yes"), nil
}

// Plan resolves opts into a Job. It discovers the files, reports them on out,
// and then either makes _test copies (test mode) or asks for confirmation on
// in. Terminal conditions are returned as ErrDirectoryNotFound, ErrNoFiles or
// ErrCancelled before any image is written.
func Plan(opts Options, in io.Reader, out io.Writer) (*Job, error) {
	paths, err := Discover(opts.Dir, opts.Name)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	fmt.Fprintf(out, "Found: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(out, "Mode: %s, Strength: %d\n", opts.Params.Mode, opts.Params.Strength)

	job := &Job{Paths: paths, Params: opts.Params}

	if opts.Test {
		fmt.Fprintln(out, "\nTEST MODE: Creating and processing test copies automatically...")
		copies, err := MakeTestCopies(paths)
		if err != nil {
			return nil, err
		}
		job.Paths = copies
		job.Confirmed = true
		return job, nil
	}

	ok, err := Confirm(in, out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCancelled
	}
	job.Confirmed = true
	return job, nil
}
