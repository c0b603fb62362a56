package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/spiderling/internal/model"
)

// TextWriter outputs human-readable text summaries.
type TextWriter struct {
	baseWriter

	// verbose adds charset, digest and timings per address.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *TextWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeResults(&sb, run)
	w.writeFooter(&sb, run)

	return w.output.Write([]byte(sb.String()))
}

func (w *TextWriter) writeHeader(sb *strings.Builder, run *model.Run) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SPIDERLING SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Started:   %s\n", run.StartedAt.Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("Addresses: %d\n", len(run.Results)))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", run.Duration()))
	sb.WriteString("\n")
}

func (w *TextWriter) writeResults(sb *strings.Builder, run *model.Run) {
	if len(run.Results) == 0 {
		sb.WriteString("  No addresses fetched\n\n")
		return
	}

	for i, res := range run.Results {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, res.URL))
		sb.WriteString(fmt.Sprintf("    Status: %s\n", res.Status))
		sb.WriteString(fmt.Sprintf("    Length: %d\n", res.Length))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("    Charset: %s\n", res.Charset))
			sb.WriteString(fmt.Sprintf("    Runes: %d\n", res.Runes))
			sb.WriteString(fmt.Sprintf("    SHA3-256: %s\n", res.Digest))
			sb.WriteString(fmt.Sprintf("    Latency: %s\n", res.Latency()))
			sb.WriteString(fmt.Sprintf("    Elapsed: %s\n", res.Elapsed()))
		}
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeFooter(sb *strings.Builder, run *model.Run) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total length: %d\n", run.TotalLength()))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
