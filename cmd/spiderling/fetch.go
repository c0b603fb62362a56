package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/spiderling/internal/config"
	"github.com/nao1215/spiderling/internal/fetcher"
	"github.com/nao1215/spiderling/internal/log"
	"github.com/nao1215/spiderling/internal/model"
	"github.com/nao1215/spiderling/internal/report"
	"github.com/nao1215/spiderling/internal/transport"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errInterrupted is returned when a signal stops the run.
var errInterrupted = errors.New("interrupted")

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [url...]",
		Short: "Fetch each address in order and report the body length",
		Long: `Fetch issues an HTTP GET for each address, strictly one after another.

Each address produces four log lines: start fetching, before issuing
request, after response arrived, and got body with the decoded length.
The first failure stops the run and later addresses are not contacted.

Without arguments, the targets from the configuration file are used,
or the built-in default address.

Examples:
  # Fetch the default address
  spiderling fetch

  # Fetch two pages in order
  spiderling fetch https://example.com/ https://example.org/

  # Fetch through a local Tor SOCKS proxy
  spiderling fetch --proxy 127.0.0.1:9050 https://example.com/

  # Start an embedded Tor daemon for the run
  spiderling fetch --embedded-tor https://example.com/

  # Write a Markdown summary to a file
  spiderling fetch --markdown -o summary.md https://example.com/`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	// Request flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request (0 means none)")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with each request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Fail when a body is larger than this many bytes (0 means no limit)")
	cmd.Flags().StringArrayP("header", "H", nil,
		`Extra request header as "Name: value" (repeatable)`)
	cmd.Flags().String("cookie", "",
		`Cookie header sent with each request ("a=b; c=d")`)

	// Proxy flags
	cmd.Flags().StringP("proxy", "x", "",
		"Route requests through the SOCKS5 proxy at host:port")
	cmd.Flags().Bool("embedded-tor", false,
		"Start an embedded Tor daemon and route requests through it")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .spiderling in current or home directory)")

	// Output flags
	cmd.Flags().Bool("json-log", false,
		"Write log lines as JSON records")
	cmd.Flags().BoolP("json", "j", false,
		"Write a JSON summary after the run (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write a Markdown summary after the run (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the summary to the specified file path (creates directories if needed)")

	return cmd
}

func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.OutOrStdout(), cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return runFetch(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// command flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; the default locations are optional.
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, err
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cookie") {
		if cfg.Cookie, err = flags.GetString("cookie"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	headers, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		name, value, err := config.ParseHeader(h)
		if err != nil {
			return nil, err
		}
		cfg.Headers[name] = value
	}

	if cfg.EmbeddedTor, err = flags.GetBool("embedded-tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.JSONLog, err = flags.GetBool("json-log"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.Targets = args
	}

	return cfg, nil
}

// setupLogger creates the diagnostic logger. Lines go to w.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.JSONLog {
		return log.NewJSONLogger(w, cfg.Verbose)
	}
	return log.NewConsoleLogger(w, cfg.Verbose)
}

// runFetch runs the fetch loop as a single task next to a signal watcher.
// A signal cancels the in-flight request and the run fails.
func runFetch(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	client, cleanup, err := newHTTPClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	f := fetcher.New(client,
		fetcher.WithLogger(logger),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	)

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		return watchSignals(gctx, done, logger)
	})

	var run *model.Run
	g.Go(func() error {
		defer close(done)
		var err error
		run, err = f.Run(gctx, cfg.Targets)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	return outputReport(cfg, run, out)
}

// watchSignals returns errInterrupted on SIGINT or SIGTERM, and nil once
// done is closed or ctx ends.
func watchSignals(ctx context.Context, done <-chan struct{}, logger *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Warn("received shutdown signal, cancelling", "signal", sig.String())
		return errInterrupted
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// newHTTPClient builds the client for the run. The returned stop func
// releases an embedded Tor daemon and is safe to call when none was started.
func newHTTPClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Client, func(), error) {
	opts := []transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithCookie(cfg.Cookie),
		transport.WithHeaders(cfg.Headers),
	}
	stop := func() {}

	proxyAddr := cfg.ProxyAddress
	switch {
	case cfg.EmbeddedTor:
		logger.Info("starting embedded Tor daemon", "timeout", cfg.TorStartupTimeout.String())
		daemon := transport.NewTorDaemon(cfg.TorStartupTimeout)
		addr, err := daemon.Start(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("embedded Tor: %w", err)
		}
		stop = func() {
			if err := daemon.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}
		logger.Info("embedded Tor daemon ready", "socks_addr", addr)
		proxyAddr = addr

	case proxyAddr != "":
		if err := transport.CheckSOCKS5(ctx, proxyAddr).Err(); err != nil {
			return nil, nil, fmt.Errorf("proxy check failed for %s: %w", proxyAddr, err)
		}
		logger.Debug("SOCKS5 proxy verified", "address", proxyAddr)
	}

	if proxyAddr != "" {
		opts = append(opts, transport.WithSOCKS5(proxyAddr))
	}
	client, err := transport.NewClient(opts...)
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client, stop, nil
}

// outputReport writes the run summary when one was requested.
func outputReport(cfg *config.Config, run *model.Run, stdout io.Writer) error {
	if !cfg.WantsReport() {
		return nil
	}

	writer := newReportWriter(cfg, stdout)
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		writer = newReportWriter(cfg, f)
		// Verbose runs still show the text summary on the terminal.
		if cfg.Verbose {
			writer = report.NewMultiWriter(writer, report.NewTextWriter(stdout, report.WithVerbose(true)))
		}
	}

	if _, err := writer.Write(run); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// newReportWriter selects the summary format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
