package merge

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter writes the running progress line, per-file errors and the
// completion message to a console writer.
type Reporter struct {
	w    io.Writer
	fail *color.Color
	done *color.Color
}

// NewReporter returns a Reporter writing to w. Color is used only when w is
// a terminal and NO_COLOR is not set.
func NewReporter(w io.Writer) *Reporter {
	r := &Reporter{
		w:    w,
		fail: color.New(color.FgRed),
		done: color.New(color.FgGreen),
	}
	if !isTerminal(w) {
		r.fail.DisableColor()
		r.done.DisableColor()
	}
	return r
}

// Progress overwrites the current line with the processed/total counter.
func (r *Reporter) Progress(processed, total int) {
	fmt.Fprintf(r.w, "Progress: %d/%d files processed\r", processed, total)
}

// Failure reports a file that was skipped.
func (r *Reporter) Failure(path string, err error) {
	fmt.Fprint(r.w, "\n")
	r.fail.Fprintf(r.w, "Error processing %s: %v", path, err)
	fmt.Fprint(r.w, "\n")
}

// Done ends the progress line and names the output file.
func (r *Reporter) Done(output string) {
	fmt.Fprint(r.w, "\n")
	r.done.Fprintf(r.w, "Files have been merged into %s", output)
	fmt.Fprint(r.w, "\n")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
