package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUpload          = errors.New("upload failed")
	ErrMint            = errors.New("mint failed")
	ErrPersist         = errors.New("persist failed")
	ErrExternalService = errors.New("external service error")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrTransient       = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorDetails is the structured view of a wrapped service error.
type ErrorDetails struct {
	Kind    string
	Message string
	Cause   string
}

// Details classifies err by marker and splits its message for structured logs.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	details := ErrorDetails{Kind: "unknown", Message: err.Error()}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			details.Kind = strings.ReplaceAll(marker.Error(), " ", "_")
			details.Message = strings.TrimPrefix(details.Message, marker.Error()+": ")
			break
		}
	}
	if cause := errors.Unwrap(err); cause == nil {
		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			parts := multi.Unwrap()
			if len(parts) > 1 {
				details.Cause = parts[len(parts)-1].Error()
			}
		}
	}
	return details
}

var markers = []error{
	ErrUpload,
	ErrMint,
	ErrPersist,
	ErrExternalService,
	ErrValidation,
	ErrConfiguration,
	ErrNotFound,
	ErrTransient,
}

// ErrorHint returns the operator next step associated with an error's marker.
func ErrorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "service call timed out; raise workflow.stage_timeout_seconds or check service health"
	case errors.Is(err, ErrConfiguration):
		return "check mintforge config (mintforge config validate)"
	case errors.Is(err, ErrValidation):
		return "fix the manifest row or asset and retry"
	case errors.Is(err, ErrUpload):
		return "check storage service availability and credentials"
	case errors.Is(err, ErrMint):
		return "check ledger service availability, contract address and chain id"
	case errors.Is(err, ErrPersist):
		return "token was minted but not recorded; reconcile the record manually"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
