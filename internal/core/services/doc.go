// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The fuzzy file locator lives here: EditDistance scores names,
// Locator climbs outward from an expected path collecting candidates,
// and Classify turns the ranked result into a rubric decision.
//
// Grader runs the rubric over a checkout and ReportService keeps the
// history of graded reports.
package services
