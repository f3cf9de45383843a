// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Config fields
	FieldKey    = "key"
	FieldPath   = "path"
	FieldSource = "source"

	// Error fields
	FieldError  = "error"
	FieldReason = "reason"
)
