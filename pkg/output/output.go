package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/hostverify/pkg/check"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

// Verbose enables Debugf output.
var Verbose bool

// Stderr receives Debugf output.
var Stderr io.Writer = os.Stderr

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, dim, reset = "", "", "", ""
	}
}

// PrintResult outputs a check result with colored status to stdout.
func PrintResult(r check.Result) {
	WriteResult(os.Stdout, r)
}

// WriteResult outputs a check result with colored status. Details are
// indented under the name.
func WriteResult(w io.Writer, r check.Result) {
	indent := "     "
	if r.OK() {
		_, _ = fmt.Fprintf(w, "%s[OK]%s %s\n", green, reset, r.Name)
	} else {
		_, _ = fmt.Fprintf(w, "%s[FAIL]%s %s\n", red, reset, r.Name)
		indent = "       "
	}
	for _, d := range r.Details {
		_, _ = fmt.Fprintf(w, "%s%s\n", indent, formatLabel(d))
	}
}

// WriteSummary prints the pass/fail counts of a report.
func WriteSummary(w io.Writer, rep check.Report) {
	total := rep.Passed + rep.Failed
	if rep.OK() {
		_, _ = fmt.Fprintf(w, "\n%s%d/%d checks passed%s\n", green, rep.Passed, total, reset)
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s%d/%d checks failed%s\n", red, rep.Failed, total, reset)
}

// Debugf prints a trace line to Stderr when Verbose is set.
func Debugf(format string, args ...any) {
	if !Verbose {
		return
	}
	_, _ = fmt.Fprintf(Stderr, "%s"+format+"%s\n", append(append([]any{dim}, args...), reset)...)
}

// formatLabel dims the "label:" prefix of a detail line.
func formatLabel(s string) string {
	label, rest, ok := strings.Cut(s, ":")
	if !ok {
		return s
	}
	return dim + label + ":" + reset + rest
}
