// Package report renders the summary of a completed fetch run.
//
// Writers:
//   - TextWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown for documentation and sharing
//
// All writers implement Writer. MultiWriter fans one run out to several of
// them; the fetch command uses it to echo the text summary to the terminal
// while a verbose run writes its summary to a file.
// Summaries are only written for runs that succeeded; a failed run has no
// results to report.
package report
