// Package assistant turns billing and lesson context into free text using an
// external text-generation service. Every failure degrades to a fixed
// fallback message.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banca-dev/banca/internal/log"
	"github.com/banca-dev/banca/internal/model"
)

// Fallback texts returned instead of an error.
const (
	FallbackBillingEmpty     = "Could not generate the message."
	FallbackBillingFailed    = "Could not generate the billing message automatically. Check your API key."
	FallbackSuggestionEmpty  = "No suggestions right now."
	FallbackSuggestionFailed = "Could not reach the assistant."
)

// ErrDisabled is returned by the Disabled generator.
var ErrDisabled = errors.New("assistant disabled")

// Generator produces text for a prompt. One call per request, no retries.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ServiceError wraps a failure of the external text service.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Disabled is a Generator that always fails, so callers get fallback text.
type Disabled struct{}

// Generate implements Generator.
func (Disabled) Generate(context.Context, string) (string, error) {
	return "", &ServiceError{Provider: "none", Err: ErrDisabled}
}

// Options configures an Assistant.
type Options struct {
	Provider   string        // recorded on assistant_failed events
	Currency   string        // prefix for amounts in prompts
	DateLayout string        // Go layout for lesson dates in prompts
	Timeout    time.Duration // 0 waits for the service indefinitely
	Events     log.Sink
}

// Assistant renders prompts and calls a Generator.
type Assistant struct {
	gen  Generator
	opts Options
}

// New returns an Assistant backed by gen.
func New(gen Generator, opts Options) *Assistant {
	if gen == nil {
		gen = Disabled{}
	}
	return &Assistant{gen: gen, opts: opts}
}

// BillingMessage writes a payment reminder for the student's unpaid lessons.
func (a *Assistant) BillingMessage(ctx context.Context, student model.Student, sessions []model.ClassSession, total decimal.Decimal) string {
	prompt, err := BillingPrompt(student, sessions, total, a.opts.Currency, a.opts.DateLayout)
	if err != nil {
		a.failed(err)
		return FallbackBillingFailed
	}
	return a.generate(ctx, prompt, FallbackBillingEmpty, FallbackBillingFailed)
}

// LessonSuggestion proposes a plan for the student's next lesson.
func (a *Assistant) LessonSuggestion(ctx context.Context, student model.Student, previousNote string) string {
	prompt, err := SuggestionPrompt(student, previousNote)
	if err != nil {
		a.failed(err)
		return FallbackSuggestionFailed
	}
	return a.generate(ctx, prompt, FallbackSuggestionEmpty, FallbackSuggestionFailed)
}

func (a *Assistant) generate(ctx context.Context, prompt, empty, failed string) string {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.failed(err)
		return failed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return empty
	}
	return text
}

func (a *Assistant) failed(err error) {
	log.Emit(a.opts.Events, log.LogEvent{
		Event:    log.EventAssistantFailed,
		Provider: a.opts.Provider,
		Error:    err.Error(),
	})
}
