// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - MemoStore: The memo directory, source of truth for all memos
//   - VectorIndex / VectorIndexFactory: Exact similarity search over embeddings
//   - SnapshotStore: Durable copy of the index and its metadata table
//   - EmbeddingService: Maps text to fixed-size vectors
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil and the application degrades gracefully:
//
//   - SchedulerStore: Task state and history. Without it the scheduler keeps state in memory.
//   - MemoWatcher: Filesystem notifications. Without it catch-up only runs on demand or on schedule.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
