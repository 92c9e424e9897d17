package batch

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	pngimage "smooth-edges/internal/image"
	"smooth-edges/internal/mask"
)

// ErrNotConfirmed is returned by Run for a job whose overwrite was never approved.
var ErrNotConfirmed = errors.New("job not confirmed")

// Stage identifies where a file failed.
type Stage int

const (
	StageNone Stage = iota
	StageLoad
	StageProcess
	StageSave
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageProcess:
		return "process"
	case StageSave:
		return "save"
	default:
		return "none"
	}
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path  string
	Stage Stage // where it failed; StageNone on success
	Err   error

	Before   mask.Stats // alpha as loaded
	After    mask.Stats // alpha as written
	Vertices int        // polygon vertices in sharp mode
	Fallback bool       // sharp mode found no contour
}

// OK reports whether the file was written.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Summary collects the per-file outcomes of a run, in input order.
type Summary struct {
	Results []FileResult
}

// Succeeded returns the number of files written.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that could not be processed.
func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Processor rewrites images in place. Progress lines go to Out, error details
// to Log.
type Processor struct {
	Out     io.Writer
	Log     *log.Logger
	Verbose bool // also print alpha statistics per file
}

// NewProcessor returns a Processor writing progress to out and details to the
// standard logger.
func NewProcessor(out io.Writer) *Processor {
	return &Processor{Out: out, Log: log.Default()}
}

// Run processes every file of a confirmed job, one after another. A failure on
// one file is recorded and the next file is still processed.
func (p *Processor) Run(job *Job) (Summary, error) {
	if job == nil || !job.Confirmed {
		return Summary{}, ErrNotConfirmed
	}

	var summary Summary
	for _, path := range job.Paths {
		summary.Results = append(summary.Results, p.ProcessFile(path, job.Params))
	}

	fmt.Fprintln(p.Out, "\nDone!")
	return summary, nil
}

// ProcessFile loads path, rebuilds its alpha with params, clears the color
// outside the new mask and writes the PNG back over path.
func (p *Processor) ProcessFile(path string, params mask.Params) FileResult {
	name := filepath.Base(path)
	fmt.Fprintf(p.Out, "Processing: %s (%s)\n", name, params)

	result := FileResult{Path: path}

	layer, err := pngimage.Load(path)
	if err != nil {
		fmt.Fprintln(p.Out, "  Failed to load")
		return p.fail(result, StageLoad, err)
	}
	defer layer.Close()
	result.Before = mask.Measure(layer.Alpha)

	rebuilt, err := mask.Reconstruct(layer.Alpha, params)
	if err != nil {
		fmt.Fprintln(p.Out, "  Failed")
		return p.fail(result, StageProcess, err)
	}
	defer rebuilt.Close()
	result.After = mask.Measure(rebuilt.Mask)
	result.Vertices = len(rebuilt.Outline)
	result.Fallback = rebuilt.Fallback

	merged, err := pngimage.Composite(layer.Color, rebuilt.Mask)
	if err != nil {
		merged.Close()
		fmt.Fprintln(p.Out, "  Failed")
		return p.fail(result, StageProcess, err)
	}
	defer merged.Close()

	if err := pngimage.SavePNG(path, merged); err != nil {
		fmt.Fprintln(p.Out, "  Failed")
		return p.fail(result, StageSave, err)
	}

	if p.Verbose {
		fmt.Fprintf(p.Out, "  alpha before: %s\n", result.Before)
		fmt.Fprintf(p.Out, "  alpha after:  %s\n", result.After)
		switch {
		case result.Fallback:
			fmt.Fprintln(p.Out, "  no contour survived cleanup; kept cleaned mask")
		case params.Mode == mask.ModeSharp:
			fmt.Fprintf(p.Out, "  outline: %d vertices\n", result.Vertices)
		}
	}
	fmt.Fprintln(p.Out, "  Success!")
	return result
}

func (p *Processor) fail(r FileResult, stage Stage, err error) FileResult {
	r.Stage = stage
	r.Err = fmt.Errorf("%s %s: %w", stage, filepath.Base(r.Path), err)
	if p.Log != nil {
		p.Log.Print(r.Err)
	}
	return r
}
