package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/shared"
	"github.com/goccy/go-json"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
	snippetLimit       = 500
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// MalformedError reports a source file that is not valid JSON.
type MalformedError struct {
	Snippet string // first bytes of the raw content
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v: %v", shared.ErrMalformedSource, e.Err)
}

func (e *MalformedError) Unwrap() []error {
	return []error{shared.ErrMalformedSource, e.Err}
}

// DocumentRepository loads a JSON document from a fixed path.
type DocumentRepository struct {
	path        string
	maxAttempts int
	retryDelay  time.Duration
	sleep       SleepFunc
	logger      *log.Logger
}

// DocumentOpts configures a [DocumentRepository]. Zero values select defaults.
type DocumentOpts struct {
	MaxAttempts int
	RetryDelay  time.Duration
	Sleep       SleepFunc
	Logger      *log.Logger
}

// NewDocumentRepository creates a repository for the document at path.
func NewDocumentRepository(path string, opts DocumentOpts) *DocumentRepository {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	return &DocumentRepository{
		path:        path,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		sleep:       opts.Sleep,
		logger:      shared.WithLogger(opts.Logger, "source", path),
	}
}

// Path returns the resolved document path.
func (r *DocumentRepository) Path() string {
	return r.path
}

// Exists reports whether the document file is present.
func (r *DocumentRepository) Exists() (bool, error) {
	_, err := os.Stat(r.path)
	switch {
	case err == nil:
		return true, nil
	case isAbsent(err):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", shared.ErrReadFailed, err)
	}
}

// Load reads and parses the document.
//
// A missing file yields an empty document. Other failures are retried; the delay before attempt i is i times
// the configured retry delay.
func (r *DocumentRepository) Load(ctx context.Context) (models.Document, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			r.logger.Debug("retrying read", "attempt", attempt+1, "of", r.maxAttempts)
			if err := r.sleep(ctx, time.Duration(attempt)*r.retryDelay); err != nil {
				return nil, err
			}
		}

		doc, err := r.read()
		if err == nil {
			return doc, nil
		}
		if isAbsent(err) {
			r.logger.Info("database file does not exist, returning empty document")
			return models.Document{}, nil
		}

		lastErr = err
		r.logger.Warn("read attempt failed", "attempt", attempt+1, "error", err)
	}

	var malformed *MalformedError
	if errors.As(lastErr, &malformed) {
		r.logger.Error("invalid JSON content", "content", malformed.Snippet)
	}
	r.logger.Error(shared.ErrRetriesExhausted.Error(), "attempts", r.maxAttempts, "error", lastErr)

	return nil, lastErr
}

func (r *DocumentRepository) read() (models.Document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if isAbsent(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrReadFailed, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &MalformedError{Snippet: snippet(data), Err: err}
	}

	doc, ok := models.AsObject(v)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %s", shared.ErrInvalidFormat, jsonKind(v))
	}
	return doc, nil
}

// Sleep is the default [SleepFunc].
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func snippet(data []byte) string {
	if len(data) > snippetLimit {
		data = data[:snippetLimit]
	}
	return string(data)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
