// Package log provides the diagnostic logging used by spiderling, built on
// top of the standard slog package.
//
// This package extends slog with:
//   - ConsoleHandler, which renders "[TID=<id>] [<LEVEL>] message key=value"
//     lines meant for a human watching a run
//   - SecureHandler, which masks credentials (cookies, authorization
//     headers, tokens, URL passwords) before any handler sees them
//
// # Usage
//
//	logger := log.NewConsoleLogger(os.Stdout, verbose)
//	logger = logger.With(log.TaskIDKey, log.NextTaskID())
//	logger.Info("before issuing request", "url", target, "time", time.Now())
//
// Output:
//
//	[TID=1] [INFO] before issuing request url=https://example.com/ time=2026-10-14T09:00:00.123456789Z
//
// Go does not expose goroutine ids, so the TID is a task label handed out by
// NextTaskID. It is stable for the lifetime of a task and carries no
// coordination meaning.
package log
