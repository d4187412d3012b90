// Package flat provides an exact, brute-force vector index.
//
// Every query scans all rows and computes squared Euclidean distance, so
// results are exact. Rows are append-only and numbered from zero in
// insertion order, which lets the index coordinator align them with the
// metadata table by position.
//
// Binary format written by WriteTo:
//
//	[4B magic "MFLT"] [4B version]
//	[4B dim] [4B count]
//	[count × dim × 4B float32, row-major]
//
// All integers and floats are little-endian.
package flat
