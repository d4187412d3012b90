// Package domain defines the core business entities for memo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Memo: A persisted note with header fields and a body
//   - MetaRecord: The index-side shadow of a memo
//   - MetadataTable: Records positionally aligned with vector index rows
//   - IndexState: Uninitialized, Empty or Ready
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
