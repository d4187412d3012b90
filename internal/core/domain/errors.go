package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Index Errors.

	// ErrNotInitialized indicates the index snapshot has never been built.
	ErrNotInitialized = errors.New("index not initialized")

	// ErrIndexNotReady indicates the index could not be built or loaded.
	// Search surfaces this as "service unavailable" rather than an empty result.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrParseFailure indicates a memo file has no header/body delimiter
	// or an unreadable header. Such memos are skipped, never fatal to a batch.
	ErrParseFailure = errors.New("memo parse failure")

	// ErrDimensionMismatch indicates an embedding whose size differs from the index.
	// Usually the embedding model changed without a rebuild.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStorageIO indicates a snapshot or memo write failed.
	ErrStorageIO = errors.New("storage I/O failure")

	// ErrSnapshotMissing indicates no persisted snapshot exists.
	ErrSnapshotMissing = errors.New("snapshot missing")

	// ErrSnapshotCorrupt indicates a persisted snapshot failed validation.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")

	// ErrReconcileInProgress indicates a background reconcile is already running.
	ErrReconcileInProgress = errors.New("reconcile in progress")
)
