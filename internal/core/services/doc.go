// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The IndexCoordinator is the heart of the package: it keeps the vector
// index and metadata table aligned with the memo store. MemoService,
// Scheduler and SettingsService are thin layers on top.
//
// Services are pure Go with no CGO dependencies.
package services
