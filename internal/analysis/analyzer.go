// Package analysis wraps the external text-analysis capability: turning a
// note's content into a short summary or an ordered keyword list. Backends
// are interchangeable and configured at startup.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"smartnotes/config"
)

// Analyzer is the capability consumed by the note service. Implementations
// may fail at any time; callers decide whether a failure is surfaced or
// swallowed.
type Analyzer interface {
	Summarize(ctx context.Context, text string) (string, error)
	ExtractKeywords(ctx context.Context, text string) ([]string, error)
}

// CapabilityError is a failure reported by the capability itself (as opposed
// to transport errors). Its message is safe to surface to the caller.
type CapabilityError struct {
	Message string
}

func (e *CapabilityError) Error() string { return e.Message }

// ErrEmptyText is returned when the content has no analyzable text left
// after markup stripping.
var ErrEmptyText = errors.New("empty text provided after sanitization")

// New builds the analyzer selected by configuration.
func New(ctx context.Context, cfg config.AnalysisConfig) (Analyzer, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Provider {
	case "gemini":
		return NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "remote":
		return NewRemoteAnalyzer(cfg.RemoteBaseURL, &http.Client{Timeout: timeout}), nil
	default:
		return nil, fmt.Errorf("unknown analysis provider %q", cfg.Provider)
	}
}
