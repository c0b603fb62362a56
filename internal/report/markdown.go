package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/spiderling/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeResults(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Spiderling Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", run.StartedAt.Format(timeLayout)},
			{"Addresses", strconv.Itoa(len(run.Results))},
			{"Duration", run.Duration().String()},
			{"Total Length", strconv.Itoa(run.TotalLength())},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, run *model.Run) {
	md.H2("Results")
	md.PlainText("")

	if len(run.Results) == 0 {
		md.Note("No addresses were fetched.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Results))
	for i, res := range run.Results {
		rows[i] = []string{
			"`" + res.URL + "`",
			res.Status,
			res.Charset,
			strconv.Itoa(res.Length),
			res.Elapsed().String(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Address", "Status", "Charset", "Length", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(run.Results) > 1 {
		w.writePieChart(md, run)
	}

	digests := make([]string, len(run.Results))
	for i, res := range run.Results {
		digests[i] = "`" + res.Digest + "` " + res.URL
	}
	md.H2("SHA3-256 Digests")
	md.PlainText("")
	md.BulletList(digests...)
	md.PlainText("")

	if nonSuccess := countNonSuccess(run); nonSuccess > 0 {
		md.Warningf("%d address(es) answered with a non-2xx status.", nonSuccess)
	} else {
		md.Tip("Every address answered with a 2xx status.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of decoded length per address.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, run *model.Run) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Decoded Length per Address"),
		piechart.WithShowData(true),
	)

	for _, res := range run.Results {
		if res.Length > 0 {
			chart.LabelAndIntValue(res.URL, uint64(res.Length))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [spiderling](https://github.com/nao1215/spiderling)*")
}

func countNonSuccess(run *model.Run) int {
	n := 0
	for _, res := range run.Results {
		if res.StatusCode < 200 || res.StatusCode > 299 {
			n++
		}
	}
	return n
}
