package pipeline

import "errors"

var (
	// ErrRuleViolation is returned when a decoded record breaks a configured rule.
	ErrRuleViolation = errors.New("rule violation")

	// ErrBatchRejected marks records dead-lettered because another record in
	// an atomic batch failed.
	ErrBatchRejected = errors.New("batch rejected")
)
