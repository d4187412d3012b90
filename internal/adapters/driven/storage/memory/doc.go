// Package memory provides in-memory implementations of driven ports.
// They back the service tests and can run the whole application without
// touching the filesystem.
package memory
