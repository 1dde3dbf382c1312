package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrServiceUnavailable indicates an external service (embedding or
	// completion) is unreachable or rate-limited. Callers decide whether
	// to retry; adapters never retry silently beyond a small bound.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrSchemaValidation indicates completion-service output failed
	// schema validation. Triggers the one-shot repair retry, then the
	// pattern-based fallback.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrDocumentProcessing indicates a single document failed to parse or
	// extract. Isolated per document; never aborts the ingestion batch.
	ErrDocumentProcessing = errors.New("document processing failed")

	// ErrLLMUnavailable indicates the completion service is unreachable
	// or rate-limited.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
