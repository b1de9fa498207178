package generation

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind tags why a generation attempt produced no text.
type FailureKind string

const (
	FailureUnavailable FailureKind = "unavailable"
	FailureTimeout     FailureKind = "timeout"
	FailureEmpty       FailureKind = "empty"
	FailureHTTP        FailureKind = "http-error"
)

// Failure is the only error type returned by Service.Generate.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("generation %s: %v", f.Kind, f.Err)
	}
	return "generation " + string(f.Kind)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf extracts the failure kind from err.
func KindOf(err error) (FailureKind, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind, true
	}
	return "", false
}

// StatusError is returned by backends when the inference service answers with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference service returned status=%d body=%s", e.StatusCode, e.Body)
}

// Request is a single generation call.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
	JSON      bool
}

// Completion is what a backend receives, with sampling settings applied.
type Completion struct {
	System      string
	Prompt      string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Stop        []string
	JSON        bool
}

// Info describes the configured backend.
type Info struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Config controls the adapter bounds and sampling.
type Config struct {
	ProbeTimeout time.Duration
	Timeout      time.Duration
	Temperature  float32
	TopP         float32
	MaxTokens    int
	Stop         []string
}
