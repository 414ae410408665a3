package errors

import (
	"fmt"

	"github.com/google/uuid"
)

// StageError reports a terminal pipeline failure together with the step that failed
// and, once a draft exists, the listing id a caller can resume with.
type StageError struct {
	Kind      *BaseError
	Step      string
	ListingID uuid.UUID
	Asset     string
	Err       error
}

// NewStageError builds a stage error of the given kind.
func NewStageError(kind *BaseError, step string, listingID uuid.UUID, err error) *StageError {
	return &StageError{Kind: kind, Step: step, ListingID: listingID, Err: err}
}

// ForAsset names the asset whose transfer failed.
func (e *StageError) ForAsset(asset string) *StageError {
	e.Asset = asset

	return e
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s at %s", e.Kind.ErrorCode(), e.Step)
	if e.Asset != "" {
		msg += fmt.Sprintf(" (asset %s)", e.Asset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns both the kind sentinel and the cause so errors.Is matches either.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func (e *StageError) HTTPCode() int {
	return e.Kind.HTTPCode()
}

func (e *StageError) ErrorCode() string {
	return e.Kind.ErrorCode()
}

func (e *StageError) Message() string {
	return e.Kind.Message()
}

func (e *StageError) Details() string {
	if e.Kind.Details() != "" {
		return e.Kind.Details()
	}
	if e.Asset != "" {
		return "asset " + e.Asset
	}

	return "step " + e.Step
}

// StatsRecomputeError is a non-fatal aggregate refresh failure. It is logged, never returned to clients.
type StatsRecomputeError struct {
	Scope string
	ID    string
	Err   error
}

func (e *StatsRecomputeError) Error() string {
	return fmt.Sprintf("recompute %s stats %s: %v", e.Scope, e.ID, e.Err)
}

func (e *StatsRecomputeError) Unwrap() error {
	return e.Err
}
