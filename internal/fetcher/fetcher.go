package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/spiderling/internal/log"
	"github.com/nao1215/spiderling/internal/model"
)

// Fetcher fetches an ordered sequence of addresses, one at a time.
// A Fetcher is a single task: its log lines share one task id.
type Fetcher struct {
	// client performs the GET requests. Connection pooling, TLS, proxies
	// and timeouts are its concern, not the Fetcher's.
	client *http.Client

	// logger receives the diagnostic lines, bound to the task id.
	logger *slog.Logger

	// maxBodySize fails fetches whose body is larger. Zero means no limit.
	maxBodySize int64

	// taskID labels every log line of this Fetcher.
	taskID uint64

	// now returns the wall-clock time logged around each suspension point.
	now func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger for diagnostic lines.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMaxBodySize sets the maximum body size in bytes. Zero means no limit.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithTaskID sets the task identifier printed as TID.
func WithTaskID(id uint64) Option {
	return func(f *Fetcher) {
		f.taskID = id
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// New creates a Fetcher using the given HTTP client.
// A nil client means http.DefaultClient.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.taskID == 0 {
		f.taskID = log.NextTaskID()
	}
	f.logger = f.logger.With(log.TaskIDKey, f.taskID)

	return f
}

// Run fetches every address in order and returns their results.
//
// The first failure stops the run and is returned as is; addresses after it
// are not fetched and no partial Run is returned. An empty sequence
// succeeds without logging anything.
func (f *Fetcher) Run(ctx context.Context, urls []string) (*model.Run, error) {
	run := model.NewRun(f.now())

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := f.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		run.Add(result)
	}

	run.Finish(f.now())
	return run, nil
}

// Fetch issues a GET for one address and decodes the body as text.
// Any failure is returned as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*model.Result, error) {
	result := model.NewResult(url)

	f.logger.Info("start fetching", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, f.fail(url, StageRequest, err)
	}

	result.RequestedAt = f.now()
	f.logger.Info("before issuing request", "url", url, log.WallTimeKey, result.RequestedAt)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.fail(url, StageRequest, err)
	}
	defer resp.Body.Close()

	result.RespondedAt = f.now()
	result.StatusCode = resp.StatusCode
	result.Status = resp.Status
	result.ContentType = resp.Header.Get("Content-Type")
	f.logger.Info("after response arrived", "url", url, "status", resp.Status, log.WallTimeKey, result.RespondedAt)
	f.logger.Debug("response headers",
		"url", url,
		"content_type", result.ContentType,
		"content_length", resp.ContentLength,
		"proto", resp.Proto,
	)

	raw, err := f.readBody(resp.Body)
	if err != nil {
		return nil, f.fail(url, StageBody, err)
	}

	text, charsetName := decodeText(raw, result.ContentType)
	result.Charset = charsetName
	result.SetBody(text)
	result.CompletedAt = f.now()

	f.logger.Info("got body", "url", url, "length", result.Length, log.WallTimeKey, result.CompletedAt)
	f.logger.Debug("decoded body",
		"url", url,
		"charset", result.Charset,
		"raw_bytes", len(raw),
		"runes", result.Runes,
		"digest", result.Digest,
	)

	return result, nil
}

// readBody reads the whole body, enforcing maxBodySize when set.
func (f *Fetcher) readBody(body io.Reader) ([]byte, error) {
	if f.maxBodySize <= 0 {
		return io.ReadAll(body)
	}

	raw, err := io.ReadAll(io.LimitReader(body, f.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize)
	}
	return raw, nil
}

// fail logs and wraps a fetch failure.
func (f *Fetcher) fail(url string, stage Stage, err error) error {
	f.logger.Error("fetch failed", "url", url, "stage", string(stage), "error", err)
	return &FetchError{URL: url, Stage: stage, Err: err}
}
