// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FileSystem: Existence checks and directory listings for the locator and rubric
//   - VCS: Clone, checkout and branch listing of submission repositories
//   - ConfigStore: Application configuration
//   - ReportStore: Persistence of graded reports
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RepoHost: Repository metadata from the hosting service. Without it,
//     clone failures fall back to URL-shape heuristics.
//   - Watcher: Change notification for watch mode.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
