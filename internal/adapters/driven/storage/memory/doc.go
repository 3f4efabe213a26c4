// Package memory provides in-memory implementations of the config and
// report stores. Tests use them in place of the TOML file and SQLite.
package memory
